// Package solver implements the busy-time decomposition.
//
// For a window (t1, t2) with a duration ceiling l the solver selects the
// pivot: the longest job no longer than l that cannot be moved entirely
// out of the window. Every feasible start of the pivot splits the window
// into a left part (t1, s) and a right part (s+p, t2), both solved with the
// pivot's duration as the new ceiling. The cheapest split wins.
//
// Results are memoized per window in an arena that lives for one Solve
// call. The memo stores the winning pivot and start of each window rather
// than a schedule, and the schedule is rebuilt from the root once the cost
// is known, so the returned start times never depend on evaluation order.
package solver

//go:build integration

package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/test/util"
)

func TestMinioSourceRoundTrip(t *testing.T) {
	ctx := context.Background()
	endpoint, cleanup, err := util.StartMinIO(ctx)
	require.NoError(t, err)
	defer cleanup()

	src, err := NewMinioSource(ctx, source.Config{
		Kind:         source.KindS3,
		Endpoint:     endpoint,
		AccessKey:    util.MinIOAccessKey,
		SecretKey:    util.MinIOSecretKey,
		Bucket:       "instances",
		Prefix:       "run",
		CreateBucket: true,
	})
	require.NoError(t, err)

	_, err = src.Open(ctx, "instance00.txt")
	require.True(t, errors.Is(err, source.ErrNotFound), "got %v", err)

	require.NoError(t, src.Write(ctx, "instance00.txt", []byte("1\n0 5 3\n")))
	rc, err := src.Open(ctx, "instance00.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "1\n0 5 3\n", string(data))
}

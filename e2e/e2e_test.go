//go:build integration

package e2e

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/busytime/app"
	"github.com/kilianp07/busytime/config"
	"github.com/kilianp07/busytime/core/factory"
	"github.com/kilianp07/busytime/core/runlog"
	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/infra/mqtt"
	"github.com/kilianp07/busytime/test/util"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// junitReport is a minimal representation of a JUnit XML report. The E2E
// suite writes such a report so CI systems can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

// writeJUnit writes the provided report to the given path.
func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

// startInflux starts an InfluxDB 2.7 container initialised with the e2e
// organisation, bucket and token, and returns its base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

// Test_E2E_Batch runs a small batch through the full service with the
// Influx sink and the MQTT publisher enabled, then checks both ends.
func Test_E2E_Batch(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	began := time.Now()

	influxCont, influxURL := startInflux(ctx, t)
	defer influxCont.Terminate(ctx) //nolint:errcheck
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	defer cleanup()

	dir := t.TempDir()
	instances := map[string]string{
		"instance00.txt": "1\n0 5 3\n",
		"instance01.txt": "2\n0 3 3\n3 6 3\n",
		"instance02.txt": "2\n0 2 3\n0 4 1\n",
	}
	for name, body := range instances {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	received := make(chan paho.Message, 8)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("e2e-sub"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe(mqtt.DefaultTopicPrefix+"/#", 1, func(_ paho.Client, m paho.Message) { received <- m }); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	cfg := &config.Config{
		Source: source.Config{Kind: source.KindDir, Dir: dir},
		RunLog: runlog.Config{Backend: "sqlite", Path: filepath.Join(dir, "runs.db")},
		Batch:  config.BatchConfig{Count: 4},
		MQTT:   mqtt.Config{Broker: broker, QoS: 1},
	}
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "influx", Conf: map[string]any{
		"url": influxURL, "token": influxToken, "org": influxOrg, "bucket": influxBucket,
	}}}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	svc, err := app.New(ctx, cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer svc.Close() //nolint:errcheck
	sum, err := svc.RunBatch(ctx, cfg.Batch)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	var failures []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			msg := fmt.Sprintf(format, args...)
			failures = append(failures, msg)
			t.Error(msg)
		}
	}
	check(sum.Solved == 2 && sum.Failed == 1 && sum.Skipped == 1, "unexpected summary %+v", sum)

	got := 0
	timeout := time.After(10 * time.Second)
collect:
	for got < 3 {
		select {
		case <-received:
			got++
		case <-timeout:
			break collect
		}
	}
	check(got == 3, "expected 3 mqtt messages, got %d", got)

	cli := NewInfluxClient(influxURL, influxOrg, influxBucket, influxToken)
	defer cli.Close()
	n, err := cli.CountPoints(ctx, "instance_solved", sum.RunID)
	check(err == nil && n == 4, "expected 4 instance points, got %d (%v)", n, err)

	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{Name: t.Name(), Time: time.Since(began).Seconds()}}}
	if len(failures) > 0 {
		rep.Failures = 1
		msg := fmt.Sprint(failures)
		rep.Cases[0].Failure = &msg
	}
	if path := os.Getenv("E2E_JUNIT"); path != "" {
		if err := writeJUnit(path, rep); err != nil {
			t.Logf("junit report: %v", err)
		}
	}
}

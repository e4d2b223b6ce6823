package telemetry

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/pkg/errors"
)

const measurement = "ssu_action"

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func (c InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// InfluxReporter writes one point per completed action to InfluxDB 2.x.
type InfluxReporter struct {
	client influxdb2.Client
	writer api.WriteAPIBlocking
}

func NewInfluxReporter(cfg InfluxConfig) (*InfluxReporter, error) {
	if cfg.Org == "" || cfg.Bucket == "" {
		return nil, errors.Errorf("influx: org and bucket are required (org=%q, bucket=%q)", cfg.Org, cfg.Bucket)
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxReporter{
		client: client,
		writer: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}, nil
}

func (r *InfluxReporter) RecordAction(ctx context.Context, record ActionRecord) error {
	tags := map[string]string{
		"node":    record.NodeID.String(),
		"command": record.Command,
		"state":   string(record.State),
	}
	if record.ErrorCode != "" {
		tags["error_code"] = record.ErrorCode
	}
	fields := map[string]interface{}{
		"action_id":   int64(record.ActionID),
		"polls":       record.Polls,
		"duration_ms": record.Duration.Milliseconds(),
	}

	point := influxdb2.NewPoint(measurement, tags, fields, record.Finished)
	if err := r.writer.WritePoint(ctx, point); err != nil {
		return errors.Wrap(err, "influx: write action point")
	}
	return nil
}

func (r *InfluxReporter) Close() {
	r.client.Close()
}

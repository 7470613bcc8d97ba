package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	extract "github.com/finnishtransportagency/raita-sub002"
	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/handler"
	"github.com/finnishtransportagency/raita-sub002/source"
	"github.com/finnishtransportagency/raita-sub002/target"
	"github.com/finnishtransportagency/raita-sub002/telemetry"
)

// CLI are the cli parameters for the extract binary
type CLI struct {
	Archive              string            `arg:"" name:"archive" help:"Path to zip archive. (\"s3://bucket/key\" for S3 objects)"`
	Destination          string            `arg:"" name:"destination" default:"." help:"Output directory, or \"s3://bucket\" to upload to a bucket."`
	DryRun               bool              `short:"n" help:"Read and relay all entries to memory without storing them."`
	Endpoint             string            `optional:"" env:"S3_ENDPOINT" help:"Custom S3 endpoint (path-style addressing)."`
	KeyPrefix            string            `short:"p" optional:"" help:"Key prefix of the written objects. (default: archive name without .zip)"`
	MaxConcurrentUploads int               `optional:"" default:"16" help:"Maximum uploads in flight. (disable bound: -1)"`
	MaxEntries           int64             `optional:"" default:"-1" help:"Maximum entries that are traversed before stop. (disable check: -1)"`
	MaxExtractionTime    int64             `optional:"" default:"-1" help:"Maximum time that processing should take (in seconds). (disable check: -1)"`
	Metadata             map[string]string `short:"m" optional:"" help:"Metadata attached to every object. (key=value;...)"`
	Metrics              bool              `short:"M" optional:"" default:"false" help:"Print telemetry data to log after processing."`
	MetricsFile          string            `optional:"" help:"Write prometheus metrics in text format to this file."`
	SkipExtensions       []string          `optional:"" default:"${skip_extensions}" help:"Extensions of media files that are not relayed."`
	Verbose              bool              `short:"v" optional:"" help:"Verbose logging."`
	Version              kong.VersionFlag  `short:"V" optional:"" help:"Print release version information."`
}

// Run the entrypoint into extract as a cli tool
func Run(version, commit, date string) {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Relays the entries of a zip archive to a directory or an S3 bucket"),
		kong.UsageOnError(),
		kong.Vars{
			"version":         fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
			"skip_extensions": strings.Join(config.DefaultSkipExtensions, ","),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// setup telemetry hooks
	hooks := []telemetry.TelemetryHook{func(ctx context.Context, td *telemetry.Data) {
		if cli.Metrics {
			logger.Info("processing finished", "telemetry", td)
		}
	}}
	reg := prometheus.NewRegistry()
	if cli.MetricsFile != "" {
		m, err := telemetry.NewMetrics(reg)
		if err != nil {
			logger.Error("registering metrics failed", "err", err)
			os.Exit(-1)
		}
		hooks = append(hooks, m.Hook())
	}

	// process cli params
	cfg := config.NewConfig(
		config.WithLogger(logger),
		config.WithMaxConcurrentUploads(cli.MaxConcurrentUploads),
		config.WithMaxEntries(cli.MaxEntries),
		config.WithSkipExtensions(cli.SkipExtensions...),
		config.WithTelemetryHook(telemetry.Chain(hooks...)),
	)

	opener, dst, bucket, err := cli.resolve(ctx)
	if err != nil {
		logger.Error("setup failed", "err", err)
		os.Exit(-1)
	}

	keyPrefix := cli.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix(cli.Archive)
	}

	if cli.MaxExtractionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*time.Duration(cli.MaxExtractionTime))
		defer cancel()
	}

	// process archive
	res, err := extract.ProcessArchive(ctx, opener, dst, cli.Archive, bucket, keyPrefix, cli.Metadata, cfg)
	if err != nil {
		logger.Error("processing failed", "err", err)
		os.Exit(-1)
	}

	if cli.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cli.MetricsFile, reg); err != nil {
			logger.Error("writing metrics failed", "err", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("writing result failed", "err", err)
		os.Exit(-1)
	}
}

// resolve returns the opener of the archive, the target and the bucket to write to
func (cli *CLI) resolve(ctx context.Context) (source.Opener, target.Target, string, error) {
	var client *s3.Client
	getClient := func() (*s3.Client, error) {
		if client != nil {
			return client, nil
		}
		cfg, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		client = newS3Client(cfg, cli.Endpoint)
		return client, nil
	}

	var opener source.Opener = source.NewFile()
	if strings.HasPrefix(cli.Archive, "s3://") {
		c, err := getClient()
		if err != nil {
			return nil, nil, "", err
		}
		opener = source.NewS3(c)
	}

	switch {
	case cli.DryRun:
		return opener, target.NewMemory(), "dry-run", nil
	case strings.HasPrefix(cli.Destination, "s3://"):
		bucket := strings.Trim(strings.TrimPrefix(cli.Destination, "s3://"), "/")
		if bucket == "" || strings.Contains(bucket, "/") {
			return nil, nil, "", fmt.Errorf("invalid destination bucket: %s", cli.Destination)
		}
		c, err := getClient()
		if err != nil {
			return nil, nil, "", err
		}
		return opener, target.NewS3FromClient(c, 0), bucket, nil
	}

	// the last element of the destination directory takes the place of the bucket
	dir, err := filepath.Abs(cli.Destination)
	if err != nil {
		return nil, nil, "", err
	}
	return opener, target.NewOS(filepath.Dir(dir)), filepath.Base(dir), nil
}

// defaultKeyPrefix returns the file name of the archive without its .zip extension
func defaultKeyPrefix(archive string) string {
	name := path.Base(filepath.ToSlash(archive))
	if prefix, ok := handler.KeyPrefix(name); ok {
		return prefix
	}
	return name
}

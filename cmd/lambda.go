package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"

	"github.com/finnishtransportagency/raita-sub002/adminlog"
	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/extractor"
	"github.com/finnishtransportagency/raita-sub002/handler"
	"github.com/finnishtransportagency/raita-sub002/source"
	"github.com/finnishtransportagency/raita-sub002/target"
	"github.com/finnishtransportagency/raita-sub002/telemetry"
)

// eventSource is the source of published telemetry events
const eventSource = "raita.extract"

// LambdaEnv is the configuration of the Lambda function, read from the environment
type LambdaEnv struct {
	TargetBucket         string   `env:"TARGET_BUCKET" required:"" help:"Bucket the entries are relayed to."`
	SkipExtensions       []string `env:"SKIP_EXTENSIONS" default:"${skip_extensions}" help:"Extensions of media files that are not relayed."`
	MaxConcurrentUploads int      `env:"MAX_CONCURRENT_UPLOADS" default:"16" help:"Maximum uploads in flight. (disable bound: -1)"`
	EventBusName         string   `env:"EVENT_BUS_NAME" help:"Event bus that receives a telemetry event per archive."`
	AdminLogDSN          string   `env:"ADMIN_LOG_DSN" help:"PostgreSQL connection string of the admin log."`
	LogLevel             string   `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	S3Endpoint           string   `env:"S3_ENDPOINT" help:"Custom S3 endpoint (path-style addressing)."`
}

// parseLambdaEnv reads the configuration from the environment
func parseLambdaEnv(args []string) (*LambdaEnv, error) {
	var env LambdaEnv
	parser, err := kong.New(&env,
		kong.Name("extract-lambda"),
		kong.Vars{"skip_extensions": strings.Join(config.DefaultSkipExtensions, ",")},
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &env, nil
}

// logLevel maps the configured level name to a slog level
func (e *LambdaEnv) logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// RunLambda is the entrypoint of the Lambda function that processes SQS-wrapped S3 notifications
func RunLambda() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	env, err := parseLambdaEnv(os.Args[1:])
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: env.logLevel()}))

	h, closeFn, err := newLambdaHandler(ctx, env, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		os.Exit(1)
	}
	defer closeFn()

	lambda.Start(h.HandleSQS)
}

// newLambdaHandler wires the pipeline of the Lambda function
func newLambdaHandler(ctx context.Context, env *LambdaEnv, logger *slog.Logger) (*handler.Handler, func(), error) {
	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	client := newS3Client(awsCfg, env.S3Endpoint)

	hooks := []telemetry.TelemetryHook{func(ctx context.Context, td *telemetry.Data) {
		logger.Debug("telemetry", "data", td)
	}}
	if env.EventBusName != "" {
		hooks = append(hooks, telemetry.NewEventsHook(cloudwatchevents.NewFromConfig(awsCfg), env.EventBusName, eventSource, logger))
	}

	cfg := config.NewConfig(
		config.WithLogger(logger),
		config.WithMaxConcurrentUploads(env.MaxConcurrentUploads),
		config.WithSkipExtensions(env.SkipExtensions...),
		config.WithTelemetryHook(telemetry.Chain(hooks...)),
	)
	pipeline := extractor.New(source.NewS3(client), target.NewS3FromClient(client, 0), cfg)

	opts := []handler.Option{handler.WithLogger(logger)}
	closeFn := func() {}
	if env.AdminLogDSN != "" {
		sink, pool, err := adminlog.Connect(ctx, env.AdminLogDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("admin log: %w", err)
		}
		opts = append(opts, handler.WithRecorder(sink))
		closeFn = pool.Close
	}

	return handler.New(pipeline, env.TargetBucket, opts...), closeFn, nil
}

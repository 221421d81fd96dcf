package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pb "lister/api/proto/v1"
	"lister/internal/config"
	"lister/internal/engine"
	"lister/internal/logging"
	"lister/internal/pipeline"
	"lister/internal/transport"
)

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), `usage: lister [-config lister.yml] <command> [args]

commands:
  run [list...]   fetch and store the named lists once (all when none given)
  serve           refresh all lists, then serve the control API
  ping            check a running server
  deploy FILE     run a list file on a running server, prints the deploy id
  pause ID        cancel a deployed run
`)
}

func main() {
	cfgPath := flag.String("config", "lister.yml", "app config file")
	flag.Usage = usage
	flag.Parse()

	app, err := config.LoadApp(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.InitFromEnv(logging.Options{Level: app.Log.Level, JSON: app.Log.JSON})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch flag.Arg(0) {
	case "run":
		err = run(ctx, app, flag.Args()[1:])
	case "serve":
		err = serve(ctx, app)
	case "ping", "deploy", "pause":
		err = control(ctx, app, flag.Args())
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.L().Error("lister failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, app config.App, names []string) error {
	r, err := pipeline.Compile(app.ListsFile)
	if err != nil {
		return err
	}
	defer r.Close()
	r.SetConcurrency(app.Concurrency)

	_, err = r.RunAll(ctx, names...)
	return err
}

func serve(ctx context.Context, app config.App) error {
	e, err := engine.Bootstrap(ctx, app)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return e.Run(ctx)
}

func control(ctx context.Context, app config.App, args []string) error {
	cli, cc, err := transport.Dial(app.GRPCPort)
	if err != nil {
		return err
	}
	defer cc.Close()

	switch {
	case args[0] == "ping":
		rep, err := cli.Ping(ctx, &pb.PingRequest{})
		if err != nil {
			return err
		}
		fmt.Println(rep.GetStatus())
	case args[0] == "deploy" && len(args) == 2:
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		rep, err := cli.DeployPipeline(ctx, &pb.DeployRequest{Yaml: string(raw)})
		if err != nil {
			return err
		}
		fmt.Println(rep.GetId())
	case args[0] == "pause" && len(args) == 2:
		rep, err := cli.PausePipeline(ctx, &pb.PauseRequest{Id: args[1]})
		if err != nil {
			return err
		}
		if !rep.GetOk() {
			return fmt.Errorf("no running deploy %q", args[1])
		}
	default:
		usage()
		return fmt.Errorf("%s: wrong number of arguments", args[0])
	}
	return nil
}

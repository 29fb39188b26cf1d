package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/gyropad/pkg/cli/sh"
	"github.com/robotalks/gyropad/pkg/device"
	fx "github.com/robotalks/gyropad/pkg/framework"
)

var console bool

func init() {
	device.SetupFlags()
	flag.BoolVar(&console, "console", console, "Run the interactive console.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := device.Default()
	if err := conf.Resolve(flag.CommandLine); err != nil {
		glog.Exit(err)
	}
	drv, err := conf.OpenDrivers()
	if err != nil {
		glog.Exit(err)
	}
	dev, err := device.New(conf, drv)
	if err != nil {
		drv.Shutdown()
		glog.Exit(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(fx.NamedRun("device", dev))
	if console {
		shell := sh.New(&dev.Keys, dev.Snapshot)
		runner.Go(fx.NamedRun("console", fx.RunnableFunc(func(ctx context.Context) error {
			defer cancel()
			return shell.Run(ctx)
		})))
	}
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}

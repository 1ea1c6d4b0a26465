package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/observability"
	"github.com/cory-johannsen/wasteland/internal/playback"
	"github.com/cory-johannsen/wasteland/internal/server"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var o options
	o.bind(fs)
	wait := fs.Bool("wait", true, "hold the first tick until a viewer connects")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(o)
	if err != nil {
		return err
	}
	defer a.Close()

	initial, err := a.runner.Begin(a.setup)
	if err != nil {
		return err
	}
	logger := observability.ForRun(a.logger, initial.RunID)

	sched := playback.NewScheduler(a.engine, initial, a.cfg.Playback.TickInterval, logger)
	hub := playback.NewHub(logger)

	srv := &http.Server{
		Addr:              a.cfg.Playback.Addr(),
		Handler:           newRouter(a.cfg.Playback.Path, hub, sched),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc := server.NewLifecycle(logger)
	lc.Add("hub", &server.FuncService{StartFn: func(ctx context.Context) error {
		hub.Run(ctx)
		return nil
	}})
	lc.Add("http", &server.FuncService{
		StartFn: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("playback listening",
				zap.String("addr", ln.Addr().String()),
				zap.String("path", a.cfg.Playback.Path),
			)
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		},
	})
	lc.Add("playback", &server.FuncService{StartFn: func(ctx context.Context) error {
		_, frames := sched.Subscribe(initial.Ceiling + 1)
		go func() {
			if err := hub.Follow(ctx, frames); err != nil && ctx.Err() == nil {
				logger.Warn("relaying frames stopped", zap.Error(err))
			}
		}()
		if *wait {
			select {
			case <-hub.Connected():
			case <-ctx.Done():
				return nil
			}
		}
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}})
	return lc.Run(context.Background())
}

// newRouter serves the live feed at path and the finished result at /result.
func newRouter(path string, feed http.Handler, sched *playback.Scheduler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, gin.WrapH(feed))
	router.GET("/result", func(c *gin.Context) {
		res, ok := sched.Result()
		if !ok {
			c.JSON(http.StatusAccepted, gin.H{"status": "running", "tick": sched.State().Tick})
			return
		}
		c.JSON(http.StatusOK, res)
	})
	return router
}

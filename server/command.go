package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/handler"
	"github.com/yassinebenk/bg-v2/middleware"
	"github.com/yassinebenk/bg-v2/service"
	"github.com/yassinebenk/bg-v2/utils"
)

// Build metadata, set via -ldflags at release time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var serveopts struct {
	configPath string
}

var Command = &cli.Command{
	Name:   "serve",
	Usage:  "Start the artwork mockup HTTP service.",
	Action: serveCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.yaml",
			Usage:       "path to the YAML configuration file",
			Destination: &serveopts.configPath,
		},
	},
}

func serveCmd(cc *cli.Context) error {
	cfg := config.New(serveopts.configPath)

	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer utils.Sync()

	utils.Logger.Info("starting bg-v2 server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	redisService := service.NewRedisService(&cfg.Redis)
	ctx := context.Background()

	var frameStore service.FrameStore
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, frame cache disabled", zap.Error(err))
	} else {
		utils.Logger.Info("redis connected successfully")
		frameStore = redisService
	}
	defer redisService.Close()

	detector := service.NewCachedDetector(
		service.NewDetector(&cfg.Render),
		frameStore,
		cfg.Render.FrameThreshold,
	)

	catalog := cfg.Mockups.Catalog()
	selector := service.NewMockupSelector(catalog, detector)
	classifier := service.NewOrientationClassifier(&cfg.Render)
	compositor := service.NewCompositor(&cfg.Render)

	var remover service.Remover
	if cfg.Rembg.Endpoint != "" {
		utils.Logger.Info("using rembg endpoint", zap.String("endpoint", cfg.Rembg.Endpoint))
		remover = service.NewHTTPRemover(&cfg.Rembg)
	} else {
		utils.Logger.Info("no rembg endpoint configured, uploads must be pre-cut")
		remover = service.NewPassthroughRemover()
	}

	warmer := service.NewWarmer(catalog, detector)
	if err := warmer.WarmUp(); err != nil {
		utils.Logger.Fatal("mockup catalog validation failed", zap.Error(err))
	}
	if err := warmer.Schedule(cfg.Mockups.Rescan); err != nil {
		utils.Logger.Fatal("failed to schedule catalog rescan", zap.Error(err))
	}
	defer warmer.Stop()

	pipeline := service.NewPipeline(cfg, remover, classifier, selector, compositor)
	composeHandler := handler.NewComposeHandler(cfg, pipeline)

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.WithRequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.Static("/static", "./static")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	r.POST("/", composeHandler.Compose)

	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

package render

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/service"
	"github.com/yassinebenk/bg-v2/utils"
)

var renderopts struct {
	configPath string
	marginInch float64
	ppi        int
}

var Command = &cli.Command{
	Name:      "render",
	Usage:     "Composite a transparent artwork PNG into the best-fitting mockup.",
	ArgsUsage: "<foreground> <output>",
	Action:    renderCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.yaml",
			Usage:       "path to the YAML configuration file",
			Destination: &renderopts.configPath,
		},
		&cli.Float64Flag{
			Name:        "margin",
			Value:       0.01,
			Usage:       "margin between artwork and frame, in inches",
			Destination: &renderopts.marginInch,
		},
		&cli.IntFlag{
			Name:        "ppi",
			Value:       96,
			Usage:       "assumed screen resolution for pixel-to-inch conversion",
			Destination: &renderopts.ppi,
		},
	},
}

func renderCmd(cc *cli.Context) error {
	if cc.NArg() != 2 {
		return fmt.Errorf("expected <foreground> and <output> arguments")
	}
	foregroundPath := cc.Args().Get(0)
	outputPath := cc.Args().Get(1)

	cfg := config.New(renderopts.configPath)
	if cc.IsSet("margin") {
		cfg.Render.MarginInch = renderopts.marginInch
	}
	if cc.IsSet("ppi") {
		cfg.Render.PPI = renderopts.ppi
	}

	// Offline tool: progress goes to stdout, zap stays quiet.
	if err := utils.InitLogger("release"); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer utils.Sync()

	foreground, err := imaging.Open(foregroundPath)
	if err != nil {
		return fmt.Errorf("open foreground %s: %w", foregroundPath, err)
	}

	classifier := service.NewOrientationClassifier(&cfg.Render)

	widthPx := foreground.Bounds().Dx()
	heightPx := foreground.Bounds().Dy()
	widthIn := classifier.Inches(widthPx)
	heightIn := classifier.Inches(heightPx)
	orientation := classifier.Classify(widthPx, heightPx)

	fmt.Printf("artwork: %dx%d px (%.2fx%.2f in)\n", widthPx, heightPx, widthIn, heightIn)
	fmt.Printf("orientation: %s\n", orientation)

	detector := service.NewDetector(&cfg.Render)
	selector := service.NewMockupSelector(cfg.Mockups.Catalog(), detector)

	match, err := selector.Select(orientation, widthIn, heightIn)
	if err != nil {
		return fmt.Errorf("select mockup: %w", err)
	}

	fmt.Printf("frame: x=%d y=%d w=%d h=%d\n",
		match.Frame.X, match.Frame.Y, match.Frame.Width, match.Frame.Height)
	fmt.Printf("mockup: %s\n", match.Path)

	mockup, err := imaging.Open(match.Path)
	if err != nil {
		return fmt.Errorf("open mockup %s: %w", match.Path, err)
	}

	compositor := service.NewCompositor(&cfg.Render)
	composite, err := compositor.Composite(mockup, match.Frame, foreground, cfg.Render.MarginInch)
	if err != nil {
		return fmt.Errorf("composite artwork: %w", err)
	}

	if err := imaging.Save(composite, outputPath); err != nil {
		return fmt.Errorf("save composite to %s: %w", outputPath, err)
	}

	fmt.Printf("wrote %s\n", outputPath)
	return nil
}

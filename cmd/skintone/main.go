package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/AydanPirani/skintone"
	"github.com/AydanPirani/skintone/utils"
	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

const HelpBanner = `
┌─┐┬┌─┬┌┐┌┌┬┐┌─┐┌┐┌┌─┐
└─┐├┴┐││││ │ │ ││││├┤
└─┘┴ ┴┴┘└┘ ┴ └─┘┘└┘└─┘

Skin color statistics from face landmarks.
    Version: %s

`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", ".", "Destination directory")
	landmarks   = flag.String("lm", "", "Landmark file or directory (defaults to <image>.json next to the image)")
	configFile  = flag.String("config", "", "JSON configuration file")
	colorSpace  = flag.String("cs", "", "Color space: rgb, ycbcr, yuv or hsv")
	minPixels   = flag.Int("min", -1, "Minimum number of pixels of a patch")
	cheekRatio  = flag.Float64("ratio", -1, "Minimum cheek area ratio")
	stdDevs     = flag.Float64("sigma", 0, "Outlier band half width, in standard deviations")
	diffuse     = flag.String("diffuse", "", "Diffuse image fill color, as a hex value (e.g. #c08a6e)")
	workers     = flag.Int("workers", 0, "Number of concurrent rasterization tasks per face")
	conc        = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	allFaces    = flag.Bool("all", false, "Process every face of the landmark file")
	noRender    = flag.Bool("norender", false, "Only write the statistics report")
	cascade     = flag.String("cc", "", "Cascade classifier used to skip landmarks not lying over a face")
	format      = flag.String("ext", ".jpg", "Extension of the generated images")
	logLevel    = flag.String("log", "", "Log level")
	logFile     = flag.String("logfile", "", "Rotated log file")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if *configFile == "" {
		*configFile = os.Getenv("SKINTONE_CONFIG")
	}
	if *logLevel == "" {
		*logLevel = os.Getenv("SKINTONE_LOG_LEVEL")
	}
	if *logLevel == "" {
		*logLevel = "info"
	}

	logger, err := utils.NewLogger(*logLevel, *logFile)
	if err != nil {
		fatal("Invalid log level: %v", err)
	}

	cfg, err := skintone.LoadConfig(*configFile)
	if err != nil {
		fatal("Unable to load the configuration: %v", err)
	}
	if err := applyFlags(cfg); err != nil {
		fatal("Invalid option: %v", err)
	}

	proc, err := skintone.NewProcessor(cfg)
	if err != nil {
		fatal("Invalid configuration: %v", err)
	}
	proc.Log = logger

	if *cascade != "" {
		proc.Locator, err = skintone.LoadFaceLocator(*cascade)
		if err != nil {
			fatal("Unable to load the face classifier: %v", err)
		}
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("◐ SKINTONE", utils.StatusMessage),
		utils.DecorateText("is analyzing the skin patches...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	now := time.Now()
	spinner.Start()
	err = proc.Execute(&skintone.Ops{
		Src:       *source,
		Dst:       *destination,
		Landmarks: *landmarks,
		PipeName:  pipeName,
		Format:    *format,
		Workers:   *conc,
	})
	spinner.StopMsg = fmt.Sprintf("%s %s\n",
		utils.DecorateText("◐ SKINTONE", utils.StatusMessage),
		utils.DecorateText("is analyzing the skin patches... ✔", utils.DefaultMessage))
	spinner.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			utils.DecorateText("\nError analyzing the images:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nThe results have been saved into: %s\n", utils.DecorateText(*destination, utils.SuccessMessage))
	fmt.Fprintf(os.Stderr, "Execution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// applyFlags overrides the configuration values with the flags set on the command line.
func applyFlags(cfg *skintone.Config) error {
	if *colorSpace != "" {
		cs, err := skintone.ParseColorSpace(*colorSpace)
		if err != nil {
			return err
		}
		cfg.ColorSpace = cs
	}
	if *minPixels >= 0 {
		cfg.MinPixels = *minPixels
	}
	if *cheekRatio >= 0 {
		cfg.CheekRatio = *cheekRatio
	}
	if *stdDevs > 0 {
		cfg.StdDevs = *stdDevs
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *diffuse != "" {
		c, err := colorful.Hex(*diffuse)
		if err != nil {
			return fmt.Errorf("diffuse color: %w", err)
		}
		r, g, b := c.RGB255()
		cfg.DiffuseColor = []int{int(r), int(g), int(b)}
	}
	if *allFaces {
		cfg.AllFaces = true
	}
	if *noRender {
		cfg.Render = false
	}
	return nil
}

func fatal(format string, args ...interface{}) {
	log.Fatalf(utils.DecorateText(format, utils.ErrorMessage), args...)
}

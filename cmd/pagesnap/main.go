package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pagesnap/pagesnap"
	"github.com/root4loot/goutils/log"
	"github.com/root4loot/goutils/urlutil"
)

const usage = `USAGE:
  pagesnap [options] -u <url>

INPUT:
  -u,   --url                    target URL to capture (required)

CONFIGURATIONS:
  -cw,  --width                  viewport width                         (Default: 1920)
  -ch,  --height                 viewport height                        (Default: 1080)
  -cf,  --full-page              capture beyond the visible viewport    (Default: false)
  -f,   --format                 image format: png or jpeg              (Default: png)
  -q,   --quality                JPEG quality (1-100)                   (Default: 90)
  -to,  --timeout                capture timeout (seconds)              (Default: 30)
  -dc,  --delay                  settle delay before capture (seconds)  (Default: 2)
  -ua,  --user-agent             specify user agent                     (Default: browser UA)
  -e,   --engine                 browser backend: rod or chromedp       (Default: rod)
  -rce, --respect-cert-err       respect certificate errors             (Default: false)
  -uh,  --use-http2              use HTTP2                              (Default: false)
        --no-headless            run a visible browser                  (Default: false)

OUTPUT:
  -o,   --output                 destination file path                  (Default: screenshot.png)
  -b64, --base64                 print base64 data instead of saving    (Default: false)
  -lb,  --label                  stamp the page origin under the image  (Default: false)
        --label-font             TTF file to draw the label with
  -s,   --silence                silence log output
  -v,   --verbose                verbose logging
        --debug                  enable debug mode
        --version                display version
`

type cli struct {
	Options        *pagesnap.Options
	TargetURL      string
	FormatName     string
	RespectCertErr bool
	UseHTTP2       bool
	NoHeadless     bool
	Debug          bool
	Help           bool
	Version        bool
}

func init() {
	log.Init("pagesnap")
}

func main() {
	cli := newCLI()
	cli.parseFlags()
	cli.checkForExits()

	if err := cli.applyFlags(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	capturer := pagesnap.NewCapturerWithOptions(*cli.Options)
	result := capturer.Capture(cli.captureURL())

	document, err := result.JSON()
	if err != nil {
		log.Fatalf("Could not render result: %v", err)
	}

	fmt.Println(document)
}

func newCLI() *cli {
	return &cli{Options: pagesnap.DefaultOptions()}
}

func (c *cli) parseFlags() {
	// TARGET
	flag.StringVar(&c.TargetURL, "url", "", "")
	flag.StringVar(&c.TargetURL, "u", "", "")

	// CONFIGURATIONS
	flag.IntVar(&c.Options.Width, "width", c.Options.Width, "")
	flag.IntVar(&c.Options.Width, "cw", c.Options.Width, "")
	flag.IntVar(&c.Options.Height, "height", c.Options.Height, "")
	flag.IntVar(&c.Options.Height, "ch", c.Options.Height, "")
	flag.BoolVar(&c.Options.FullPage, "full-page", c.Options.FullPage, "")
	flag.BoolVar(&c.Options.FullPage, "cf", c.Options.FullPage, "")
	flag.StringVar(&c.FormatName, "format", string(c.Options.Format), "")
	flag.StringVar(&c.FormatName, "f", string(c.Options.Format), "")
	flag.IntVar(&c.Options.Quality, "quality", c.Options.Quality, "")
	flag.IntVar(&c.Options.Quality, "q", c.Options.Quality, "")
	flag.IntVar(&c.Options.Timeout, "timeout", c.Options.Timeout, "")
	flag.IntVar(&c.Options.Timeout, "to", c.Options.Timeout, "")
	flag.IntVar(&c.Options.Delay, "delay", c.Options.Delay, "")
	flag.IntVar(&c.Options.Delay, "dc", c.Options.Delay, "")
	flag.StringVar(&c.Options.UserAgent, "user-agent", c.Options.UserAgent, "")
	flag.StringVar(&c.Options.UserAgent, "ua", c.Options.UserAgent, "")
	flag.StringVar(&c.Options.Engine, "engine", c.Options.Engine, "")
	flag.StringVar(&c.Options.Engine, "e", c.Options.Engine, "")
	flag.BoolVar(&c.RespectCertErr, "respect-cert-err", false, "")
	flag.BoolVar(&c.RespectCertErr, "rce", false, "")
	flag.BoolVar(&c.UseHTTP2, "use-http2", false, "")
	flag.BoolVar(&c.UseHTTP2, "uh", false, "")
	flag.BoolVar(&c.NoHeadless, "no-headless", false, "")

	// OUTPUT
	flag.StringVar(&c.Options.OutputPath, "output", c.Options.OutputPath, "")
	flag.StringVar(&c.Options.OutputPath, "o", c.Options.OutputPath, "")
	flag.BoolVar(&c.Options.Base64, "base64", c.Options.Base64, "")
	flag.BoolVar(&c.Options.Base64, "b64", c.Options.Base64, "")
	flag.BoolVar(&c.Options.Label, "label", c.Options.Label, "")
	flag.BoolVar(&c.Options.Label, "lb", c.Options.Label, "")
	flag.StringVar(&c.Options.LabelFont, "label-font", c.Options.LabelFont, "")
	flag.BoolVar(&c.Options.Silence, "silence", false, "")
	flag.BoolVar(&c.Options.Silence, "s", false, "")
	flag.BoolVar(&c.Options.Verbose, "verbose", false, "")
	flag.BoolVar(&c.Options.Verbose, "v", false, "")
	flag.BoolVar(&c.Debug, "debug", false, "")
	flag.BoolVar(&c.Help, "help", false, "")
	flag.BoolVar(&c.Help, "h", false, "")
	flag.BoolVar(&c.Version, "version", false, "")

	flag.Usage = func() {
		fmt.Print(usage)
	}

	flag.Parse()
}

// checkForExits handles the flags that end the run before any capture.
func (c *cli) checkForExits() {
	if c.Help {
		fmt.Print(usage)
		os.Exit(0)
	}

	if c.Version {
		fmt.Println("pagesnap", pagesnap.Version)
		os.Exit(0)
	}

	if c.TargetURL == "" {
		log.Error("No URL specified")
		fmt.Print(usage)
		os.Exit(1)
	}
}

// applyFlags validates the parsed flags and folds them into the options.
func (c *cli) applyFlags() error {
	format, err := pagesnap.ParseFormat(c.FormatName)
	if err != nil {
		return err
	}
	c.Options.Format = format

	if c.Options.Quality < 1 || c.Options.Quality > 100 {
		return fmt.Errorf("invalid quality %d: must be between 1 and 100", c.Options.Quality)
	}

	if c.Options.Width < 1 || c.Options.Height < 1 {
		return fmt.Errorf("invalid viewport %dx%d: width and height must be positive", c.Options.Width, c.Options.Height)
	}

	if c.Options.Engine != pagesnap.EngineRod && c.Options.Engine != pagesnap.EngineChromedp {
		return fmt.Errorf("unknown engine %q (expected rod or chromedp)", c.Options.Engine)
	}

	c.Options.IgnoreCertificateErrors = !c.RespectCertErr
	c.Options.DisableHTTP2 = !c.UseHTTP2
	c.Options.Headless = !c.NoHeadless

	if c.Debug {
		c.Options.Verbose = true
		log.SetLevel(log.DebugLevel)
	}

	return nil
}

// captureURL normalizes the target: default ports are stripped and a
// missing scheme defaults to HTTPS.
func (c *cli) captureURL() string {
	target, err := urlutil.RemoveDefaultPortStr(c.TargetURL)
	if err != nil {
		log.Debugf("Could not strip default port from %s: %v", c.TargetURL, err)
		target = c.TargetURL
	}

	if !urlutil.HasScheme(target) {
		log.Debugf("No scheme specified for %s: trying HTTPS", target)
		target = "https://" + target
	}

	return target
}

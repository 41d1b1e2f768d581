package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/snapapi-hq/snapapi-go/internal/app"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
)

func newVersionCommand() command {
	return command{
		name:        "version",
		description: "Print the client version",
		skipClient:  true,
		run: func(_ context.Context, _ *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			_, err := fmt.Fprintf(stdout, "snapapi-go %s\n", snapapi.Version)
			return err
		},
	}
}

func newRunCommand() command {
	var once bool
	return command{
		name:        "run",
		description: "Run the capture tasks from tasks_file and deliver them to sinks_file",
		skipClient:  true,
		configure: func(fs *flag.FlagSet) {
			fs.BoolVar(&once, "once", false, "Run a single pass and ignore run_interval/run_schedule")
		},
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, _ io.Writer) error {
			cfg := *a.Config
			if once {
				cfg.RunInterval = 0
				cfg.RunSchedule = ""
			}
			a.Logger.InfoObj("runner starting", "config", cfg.Redacted())

			runner, err := app.NewRunner(ctx, &cfg, a.Logger)
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func newPingCommand() command {
	return command{
		name:        "ping",
		description: "Check that the API is reachable",
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			res, err := a.Client.Ping(ctx)
			if err != nil {
				return err
			}
			return writeJSON(stdout, "", res)
		},
	}
}

func newUsageCommand() command {
	return command{
		name:        "usage",
		description: "Show quota usage for the API key",
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			res, err := a.Client.GetUsage(ctx)
			if err != nil {
				return err
			}
			return writeJSON(stdout, "", res)
		},
	}
}

func newDevicesCommand() command {
	var presets bool
	return command{
		name:        "devices",
		description: "List device presets",
		configure: func(fs *flag.FlagSet) {
			fs.BoolVar(&presets, "local", false, "Print the presets known to this client without calling the API")
		},
		offline: func() bool { return presets },
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			if presets {
				return writeJSON(stdout, "", snapapi.DevicePresets())
			}
			res, err := a.Client.GetDevices(ctx)
			if err != nil {
				return err
			}
			return writeJSON(stdout, "", res)
		},
	}
}

func newCapabilitiesCommand() command {
	return command{
		name:        "capabilities",
		description: "Show the API capability document",
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			res, err := a.Client.GetCapabilities(ctx)
			if err != nil {
				return err
			}
			return writeJSON(stdout, "", res)
		},
	}
}

// sourceFlags are the page source and viewport flags shared by screenshot and pdf.
type sourceFlags struct {
	url, html, markdown string
	htmlFile, mdFile    string
	width, height       int
	fullPage, darkMode  bool
	blockAds, cookies   bool
	delay               int
	waitFor             string
	out                 string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.url, "url", "", "Page URL")
	fs.StringVar(&s.html, "html", "", "Inline HTML to render")
	fs.StringVar(&s.htmlFile, "html-file", "", "Read HTML to render from a file")
	fs.StringVar(&s.markdown, "markdown", "", "Inline markdown to render")
	fs.StringVar(&s.mdFile, "markdown-file", "", "Read markdown to render from a file")
	fs.IntVar(&s.width, "width", 0, "Viewport width")
	fs.IntVar(&s.height, "height", 0, "Viewport height")
	fs.BoolVar(&s.fullPage, "full-page", false, "Capture the full scrollable page")
	fs.BoolVar(&s.darkMode, "dark", false, "Emulate prefers-color-scheme: dark")
	fs.BoolVar(&s.blockAds, "block-ads", false, "Block ads")
	fs.BoolVar(&s.cookies, "block-cookie-banners", false, "Hide cookie banners")
	fs.IntVar(&s.delay, "delay", 0, "Milliseconds to wait before capturing")
	fs.StringVar(&s.waitFor, "wait-for", "", "CSS selector to wait for")
	fs.StringVar(&s.out, "out", "", "Output file (default: stdout)")
}

func (s *sourceFlags) options(fs *flag.FlagSet) (snapapi.ScreenshotOptions, error) {
	set := setFlags(fs)
	var opts snapapi.ScreenshotOptions

	html, err := inlineOrFile(s.html, s.htmlFile)
	if err != nil {
		return opts, err
	}
	markdown, err := inlineOrFile(s.markdown, s.mdFile)
	if err != nil {
		return opts, err
	}
	switch {
	case s.url != "":
		opts.URL = snapapi.String(s.url)
	case html != "":
		opts.HTML = snapapi.String(html)
	case markdown != "":
		opts.Markdown = snapapi.String(markdown)
	}

	if set["width"] {
		opts.Width = snapapi.Int(s.width)
	}
	if set["height"] {
		opts.Height = snapapi.Int(s.height)
	}
	if set["full-page"] {
		opts.FullPage = snapapi.Bool(s.fullPage)
	}
	if set["dark"] {
		opts.DarkMode = snapapi.Bool(s.darkMode)
	}
	if set["block-ads"] {
		opts.BlockAds = snapapi.Bool(s.blockAds)
	}
	if set["block-cookie-banners"] {
		opts.BlockCookieBanners = snapapi.Bool(s.cookies)
	}
	if set["delay"] {
		opts.Delay = snapapi.Int(s.delay)
	}
	if s.waitFor != "" {
		opts.WaitForSelector = snapapi.String(s.waitFor)
	}
	return opts, nil
}

func inlineOrFile(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func newScreenshotCommand() command {
	var (
		src      sourceFlags
		format   string
		quality  int
		device   string
		metadata bool
		async    bool
	)
	return command{
		name:        "screenshot",
		description: "Capture a screenshot of a URL, HTML or markdown",
		configure: func(fs *flag.FlagSet) {
			src.register(fs)
			fs.StringVar(&format, "format", "", "png, jpeg, webp or avif")
			fs.IntVar(&quality, "quality", 0, "Image quality for lossy formats (1-100)")
			fs.StringVar(&device, "device", "", "Device preset, e.g. iphone-15-pro")
			fs.BoolVar(&metadata, "json", false, "Print the JSON result with metadata instead of image bytes")
			fs.BoolVar(&async, "async", false, "Queue the capture and wait for the job")
		},
		run: func(ctx context.Context, a *AppContext, fs *flag.FlagSet, stdout io.Writer) error {
			opts, err := src.options(fs)
			if err != nil {
				return err
			}
			if format != "" {
				opts.Format = snapapi.String(format)
			}
			if quality > 0 {
				opts.Quality = snapapi.Int(quality)
			}
			if device != "" {
				opts.Device = snapapi.String(device)
			}

			switch {
			case async:
				status, err := a.Client.ScreenshotAsyncAndWait(ctx, opts)
				if err != nil {
					return err
				}
				if status.Status == snapapi.JobFailed || status.Result == nil {
					return fmt.Errorf("job %s %s: %s", status.JobID, status.Status, status.Error)
				}
				if metadata {
					return writeJSON(stdout, src.out, status)
				}
				data, err := status.Result.ImageData()
				if err != nil {
					return err
				}
				return writeOutput(stdout, src.out, data)
			case metadata:
				res, err := a.Client.ScreenshotWithMetadata(ctx, opts)
				if err != nil {
					return err
				}
				return writeJSON(stdout, src.out, res)
			default:
				data, err := a.Client.Screenshot(ctx, opts)
				if err != nil {
					return err
				}
				return writeOutput(stdout, src.out, data)
			}
		},
	}
}

func newPDFCommand() command {
	var (
		src       sourceFlags
		pageSize  string
		landscape bool
		margin    string
		printBg   bool
	)
	return command{
		name:        "pdf",
		description: "Render a URL, HTML or markdown to PDF",
		configure: func(fs *flag.FlagSet) {
			src.register(fs)
			fs.StringVar(&pageSize, "page-size", "", "a4, a3, a5, letter, legal or tabloid")
			fs.BoolVar(&landscape, "landscape", false, "Landscape orientation")
			fs.StringVar(&margin, "margin", "", "Margin applied to all sides, e.g. 1cm")
			fs.BoolVar(&printBg, "print-background", false, "Print background graphics")
		},
		run: func(ctx context.Context, a *AppContext, fs *flag.FlagSet, stdout io.Writer) error {
			opts, err := src.options(fs)
			if err != nil {
				return err
			}
			set := setFlags(fs)
			pdf := &snapapi.PDFOptions{}
			if pageSize != "" {
				pdf.PageSize = snapapi.String(pageSize)
			}
			if set["landscape"] {
				pdf.Landscape = snapapi.Bool(landscape)
			}
			if margin != "" {
				pdf.MarginTop = snapapi.String(margin)
				pdf.MarginRight = snapapi.String(margin)
				pdf.MarginBottom = snapapi.String(margin)
				pdf.MarginLeft = snapapi.String(margin)
			}
			if set["print-background"] {
				pdf.PrintBackground = snapapi.Bool(printBg)
			}
			if *pdf != (snapapi.PDFOptions{}) {
				opts.PDFOptions = pdf
			}

			data, err := a.Client.PDF(ctx, opts)
			if err != nil {
				return err
			}
			return writeOutput(stdout, src.out, data)
		},
	}
}

func newVideoCommand() command {
	var (
		pageURL  string
		format   string
		width    int
		height   int
		duration int
		fps      int
		scroll   bool
		out      string
	)
	return command{
		name:        "video",
		description: "Record a video of a page",
		configure: func(fs *flag.FlagSet) {
			fs.StringVar(&pageURL, "url", "", "Page URL")
			fs.StringVar(&format, "format", "", "mp4, webm or gif (default mp4)")
			fs.IntVar(&width, "width", 0, "Viewport width (default 1280)")
			fs.IntVar(&height, "height", 0, "Viewport height (default 720)")
			fs.IntVar(&duration, "duration", 0, "Recording length in milliseconds (default 5000)")
			fs.IntVar(&fps, "fps", 0, "Frames per second (default 24)")
			fs.BoolVar(&scroll, "scroll", false, "Scroll the page while recording")
			fs.StringVar(&out, "out", "", "Output file (default: stdout)")
		},
		run: func(ctx context.Context, a *AppContext, fs *flag.FlagSet, stdout io.Writer) error {
			opts := snapapi.NewVideoOptions(pageURL)
			if format != "" {
				opts.Format = snapapi.String(format)
			}
			if width > 0 {
				opts.Width = snapapi.Int(width)
			}
			if height > 0 {
				opts.Height = snapapi.Int(height)
			}
			if duration > 0 {
				opts.Duration = snapapi.Int(duration)
			}
			if fps > 0 {
				opts.FPS = snapapi.Int(fps)
			}
			if setFlags(fs)["scroll"] {
				opts.Scroll = snapapi.Bool(scroll)
			}

			data, err := a.Client.Video(ctx, opts)
			if err != nil {
				return err
			}
			return writeOutput(stdout, out, data)
		},
	}
}

func newBatchCommand() command {
	var (
		format string
		noWait bool
		out    string
	)
	return command{
		name:        "batch",
		description: "Capture every URL given as an argument in one batch job",
		configure: func(fs *flag.FlagSet) {
			fs.StringVar(&format, "format", "", "Image format for every capture")
			fs.BoolVar(&noWait, "no-wait", false, "Print the job handle without waiting")
			fs.StringVar(&out, "out", "", "Output file (default: stdout)")
		},
		run: func(ctx context.Context, a *AppContext, fs *flag.FlagSet, stdout io.Writer) error {
			opts := snapapi.BatchOptions{URLs: fs.Args()}
			if format != "" {
				opts.Format = snapapi.String(format)
			}
			if noWait {
				res, err := a.Client.Batch(ctx, opts)
				if err != nil {
					return err
				}
				return writeJSON(stdout, out, res)
			}
			status, err := a.Client.BatchAndWait(ctx, opts)
			if err != nil {
				return err
			}
			return writeJSON(stdout, out, status)
		},
	}
}

func newExtractCommand() command {
	var (
		pageURL   string
		typ       string
		selector  string
		maxLength int
		out       string
	)
	return command{
		name:        "extract",
		description: "Extract page content (markdown, text, html, article, structured, links, images, metadata)",
		configure: func(fs *flag.FlagSet) {
			fs.StringVar(&pageURL, "url", "", "Page URL")
			fs.StringVar(&typ, "type", "", "Extraction type (default markdown)")
			fs.StringVar(&selector, "selector", "", "Limit extraction to a CSS selector")
			fs.IntVar(&maxLength, "max-length", 0, "Truncate the result to this many characters")
			fs.StringVar(&out, "out", "", "Output file (default: stdout)")
		},
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			opts := snapapi.ExtractOptions{URL: pageURL}
			if typ != "" {
				t := snapapi.ExtractType(strings.ToLower(typ))
				opts.Type = &t
			}
			if selector != "" {
				opts.Selector = snapapi.String(selector)
			}
			if maxLength > 0 {
				opts.MaxLength = snapapi.Int(maxLength)
			}

			res, err := a.Client.Extract(ctx, opts)
			if err != nil {
				return err
			}
			if text, ok := res.Text(); ok {
				if !strings.HasSuffix(text, "\n") {
					text += "\n"
				}
				return writeOutput(stdout, out, []byte(text))
			}
			return writeJSON(stdout, out, res.Data)
		},
	}
}

func newAnalyzeCommand() command {
	var (
		pageURL    string
		prompt     string
		provider   string
		model      string
		apiKey     string
		schemaFile string
		out        string
	)
	return command{
		name:        "analyze",
		description: "Ask an LLM provider about a page",
		configure: func(fs *flag.FlagSet) {
			fs.StringVar(&pageURL, "url", "", "Page URL")
			fs.StringVar(&prompt, "prompt", "", "Question or instruction for the model")
			fs.StringVar(&provider, "provider", "", "openai or anthropic")
			fs.StringVar(&model, "model", "", "Provider model name")
			fs.StringVar(&apiKey, "provider-key", os.Getenv("SNAPAPI_PROVIDER_API_KEY"), "Provider API key (default: $SNAPAPI_PROVIDER_API_KEY)")
			fs.StringVar(&schemaFile, "schema", "", "JSON schema file for structured output")
			fs.StringVar(&out, "out", "", "Output file (default: stdout)")
		},
		run: func(ctx context.Context, a *AppContext, _ *flag.FlagSet, stdout io.Writer) error {
			opts := snapapi.AnalyzeOptions{URL: pageURL, Prompt: prompt, APIKey: apiKey}
			if provider != "" {
				opts.Provider = snapapi.String(provider)
			}
			if model != "" {
				opts.Model = snapapi.String(model)
			}
			if schemaFile != "" {
				raw, err := os.ReadFile(schemaFile)
				if err != nil {
					return fmt.Errorf("read schema: %w", err)
				}
				var schema snapapi.Value
				if err := json.Unmarshal(raw, &schema); err != nil {
					return fmt.Errorf("parse schema: %w", err)
				}
				opts.JSONSchema = &schema
			}

			res, err := a.Client.Analyze(ctx, opts)
			if err != nil {
				return err
			}
			return writeJSON(stdout, out, res)
		},
	}
}

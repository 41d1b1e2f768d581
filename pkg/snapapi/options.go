package snapapi

// Optional scalar fields are pointers and every optional field is tagged
// omitempty, so a request body only contains the keys the caller set.

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// Response types accepted by capture endpoints.
const (
	ResponseTypeBinary = "binary"
	ResponseTypeJSON   = "json"
)

// Cookie is a browser cookie set before the page loads.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   *string `json:"domain,omitempty"`
	Path     *string `json:"path,omitempty"`
	Expires  *int64  `json:"expires,omitempty"`
	HTTPOnly *bool   `json:"httpOnly,omitempty"`
	Secure   *bool   `json:"secure,omitempty"`
	SameSite *string `json:"sameSite,omitempty"`
}

// HTTPAuth holds basic authentication credentials for the target page.
type HTTPAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProxyConfig routes the capture browser through a proxy.
type ProxyConfig struct {
	Server   string   `json:"server"`
	Username *string  `json:"username,omitempty"`
	Password *string  `json:"password,omitempty"`
	Bypass   []string `json:"bypass,omitempty"`
}

// Geolocation overrides the browser location.
type Geolocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// PDFOptions controls PDF page layout.
type PDFOptions struct {
	PageSize            *string  `json:"pageSize,omitempty"`
	Width               *string  `json:"width,omitempty"`
	Height              *string  `json:"height,omitempty"`
	Landscape           *bool    `json:"landscape,omitempty"`
	MarginTop           *string  `json:"marginTop,omitempty"`
	MarginRight         *string  `json:"marginRight,omitempty"`
	MarginBottom        *string  `json:"marginBottom,omitempty"`
	MarginLeft          *string  `json:"marginLeft,omitempty"`
	PrintBackground     *bool    `json:"printBackground,omitempty"`
	HeaderTemplate      *string  `json:"headerTemplate,omitempty"`
	FooterTemplate      *string  `json:"footerTemplate,omitempty"`
	DisplayHeaderFooter *bool    `json:"displayHeaderFooter,omitempty"`
	Scale               *float64 `json:"scale,omitempty"`
	PageRanges          *string  `json:"pageRanges,omitempty"`
	PreferCSSPageSize   *bool    `json:"preferCSSPageSize,omitempty"`
}

// ThumbnailOptions requests a thumbnail next to the capture. Fit is one of cover, contain, fill.
type ThumbnailOptions struct {
	Enabled bool    `json:"enabled"`
	Width   *int    `json:"width,omitempty"`
	Height  *int    `json:"height,omitempty"`
	Fit     *string `json:"fit,omitempty"`
}

// ExtractMetadata selects extra page metadata returned with JSON screenshots.
type ExtractMetadata struct {
	Fonts          *bool `json:"fonts,omitempty"`
	Colors         *bool `json:"colors,omitempty"`
	Links          *bool `json:"links,omitempty"`
	HTTPStatusCode *bool `json:"httpStatusCode,omitempty"`
}

// ScreenshotOptions configures a screenshot or PDF capture. One of URL, HTML
// or Markdown must be set.
type ScreenshotOptions struct {
	URL      *string `json:"url,omitempty"`
	HTML     *string `json:"html,omitempty"`
	Markdown *string `json:"markdown,omitempty"`
	Format   *string `json:"format,omitempty"`
	Quality  *int    `json:"quality,omitempty"`
	Device   *string `json:"device,omitempty"`

	Width             *int     `json:"width,omitempty"`
	Height            *int     `json:"height,omitempty"`
	DeviceScaleFactor *float64 `json:"deviceScaleFactor,omitempty"`
	IsMobile          *bool    `json:"isMobile,omitempty"`
	HasTouch          *bool    `json:"hasTouch,omitempty"`
	IsLandscape       *bool    `json:"isLandscape,omitempty"`

	FullPage               *bool   `json:"fullPage,omitempty"`
	FullPageScrollDelay    *int    `json:"fullPageScrollDelay,omitempty"`
	FullPageMaxHeight      *int    `json:"fullPageMaxHeight,omitempty"`
	Selector               *string `json:"selector,omitempty"`
	SelectorScrollIntoView *bool   `json:"selectorScrollIntoView,omitempty"`
	ClipX                  *int    `json:"clipX,omitempty"`
	ClipY                  *int    `json:"clipY,omitempty"`
	ClipWidth              *int    `json:"clipWidth,omitempty"`
	ClipHeight             *int    `json:"clipHeight,omitempty"`

	Delay                  *int    `json:"delay,omitempty"`
	Timeout                *int    `json:"timeout,omitempty"`
	WaitUntil              *string `json:"waitUntil,omitempty"`
	WaitForSelector        *string `json:"waitForSelector,omitempty"`
	WaitForSelectorTimeout *int    `json:"waitForSelectorTimeout,omitempty"`

	DarkMode      *bool    `json:"darkMode,omitempty"`
	ReducedMotion *bool    `json:"reducedMotion,omitempty"`
	CSS           *string  `json:"css,omitempty"`
	JavaScript    *string  `json:"javascript,omitempty"`
	HideSelectors []string `json:"hideSelectors,omitempty"`
	ClickSelector *string  `json:"clickSelector,omitempty"`
	ClickDelay    *int     `json:"clickDelay,omitempty"`

	BlockAds           *bool    `json:"blockAds,omitempty"`
	BlockTrackers      *bool    `json:"blockTrackers,omitempty"`
	BlockCookieBanners *bool    `json:"blockCookieBanners,omitempty"`
	BlockChatWidgets   *bool    `json:"blockChatWidgets,omitempty"`
	BlockResources     []string `json:"blockResources,omitempty"`

	UserAgent    *string           `json:"userAgent,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
	Cookies      []Cookie          `json:"cookies,omitempty"`
	HTTPAuth     *HTTPAuth         `json:"httpAuth,omitempty"`
	Proxy        *ProxyConfig      `json:"proxy,omitempty"`
	Geolocation  *Geolocation      `json:"geolocation,omitempty"`
	Timezone     *string           `json:"timezone,omitempty"`
	Locale       *string           `json:"locale,omitempty"`

	PDFOptions *PDFOptions       `json:"pdfOptions,omitempty"`
	Thumbnail  *ThumbnailOptions `json:"thumbnail,omitempty"`

	FailOnHTTPError       *bool            `json:"failOnHttpError,omitempty"`
	Cache                 *bool            `json:"cache,omitempty"`
	CacheTTL              *int             `json:"cacheTtl,omitempty"`
	ResponseType          *string          `json:"responseType,omitempty"`
	IncludeMetadata       *bool            `json:"includeMetadata,omitempty"`
	ExtractMetadata       *ExtractMetadata `json:"extractMetadata,omitempty"`
	FailIfContentMissing  []string         `json:"failIfContentMissing,omitempty"`
	FailIfContentContains []string         `json:"failIfContentContains,omitempty"`

	// Async queues the capture server-side and returns a job handle instead of bytes.
	Async      *bool   `json:"async,omitempty"`
	WebhookURL *string `json:"webhookUrl,omitempty"`
}

func (o ScreenshotOptions) hasSource() bool {
	return nonEmpty(o.URL) || nonEmpty(o.HTML) || nonEmpty(o.Markdown)
}

// ScrollEasing is the easing curve of a scrolling video.
type ScrollEasing string

const (
	ScrollEasingLinear         ScrollEasing = "linear"
	ScrollEasingEaseIn         ScrollEasing = "ease_in"
	ScrollEasingEaseOut        ScrollEasing = "ease_out"
	ScrollEasingEaseInOut      ScrollEasing = "ease_in_out"
	ScrollEasingEaseInOutQuint ScrollEasing = "ease_in_out_quint"
)

// VideoOptions configures a page recording. Durations and timeouts are milliseconds.
type VideoOptions struct {
	URL                string        `json:"url"`
	Format             *string       `json:"format,omitempty"`
	Quality            *int          `json:"quality,omitempty"`
	Width              *int          `json:"width,omitempty"`
	Height             *int          `json:"height,omitempty"`
	Device             *string       `json:"device,omitempty"`
	Duration           *int          `json:"duration,omitempty"`
	FPS                *int          `json:"fps,omitempty"`
	Delay              *int          `json:"delay,omitempty"`
	Timeout            *int          `json:"timeout,omitempty"`
	WaitUntil          *string       `json:"waitUntil,omitempty"`
	WaitForSelector    *string       `json:"waitForSelector,omitempty"`
	DarkMode           *bool         `json:"darkMode,omitempty"`
	BlockAds           *bool         `json:"blockAds,omitempty"`
	BlockCookieBanners *bool         `json:"blockCookieBanners,omitempty"`
	CSS                *string       `json:"css,omitempty"`
	JavaScript         *string       `json:"javascript,omitempty"`
	HideSelectors      []string      `json:"hideSelectors,omitempty"`
	UserAgent          *string       `json:"userAgent,omitempty"`
	Cookies            []Cookie      `json:"cookies,omitempty"`
	ResponseType       *string       `json:"responseType,omitempty"`
	Scroll             *bool         `json:"scroll,omitempty"`
	ScrollDelay        *int          `json:"scrollDelay,omitempty"`
	ScrollDuration     *int          `json:"scrollDuration,omitempty"`
	ScrollBy           *int          `json:"scrollBy,omitempty"`
	ScrollEasing       *ScrollEasing `json:"scrollEasing,omitempty"`
	ScrollBack         *bool         `json:"scrollBack,omitempty"`
	ScrollComplete     *bool         `json:"scrollComplete,omitempty"`
}

// NewVideoOptions returns options for url with the service's documented
// defaults: mp4, 1280x720, 5s at 24fps, 60s timeout.
func NewVideoOptions(url string) VideoOptions {
	return VideoOptions{
		URL:      url,
		Format:   String("mp4"),
		Width:    Int(1280),
		Height:   Int(720),
		Duration: Int(5000),
		FPS:      Int(24),
		Timeout:  Int(60000),
	}
}

// BatchOptions captures several URLs as one server-side job.
type BatchOptions struct {
	URLs               []string `json:"urls"`
	Format             *string  `json:"format,omitempty"`
	Quality            *int     `json:"quality,omitempty"`
	Width              *int     `json:"width,omitempty"`
	Height             *int     `json:"height,omitempty"`
	FullPage           *bool    `json:"fullPage,omitempty"`
	DarkMode           *bool    `json:"darkMode,omitempty"`
	BlockAds           *bool    `json:"blockAds,omitempty"`
	BlockCookieBanners *bool    `json:"blockCookieBanners,omitempty"`
	WebhookURL         *string  `json:"webhookUrl,omitempty"`
}

// ExtractType selects what /v1/extract returns.
type ExtractType string

const (
	ExtractTypeMarkdown   ExtractType = "markdown"
	ExtractTypeText       ExtractType = "text"
	ExtractTypeHTML       ExtractType = "html"
	ExtractTypeArticle    ExtractType = "article"
	ExtractTypeStructured ExtractType = "structured"
	ExtractTypeLinks      ExtractType = "links"
	ExtractTypeImages     ExtractType = "images"
	ExtractTypeMetadata   ExtractType = "metadata"
)

// ExtractOptions configures content extraction. When Type is nil the server
// defaults to markdown.
type ExtractOptions struct {
	URL                string       `json:"url"`
	Type               *ExtractType `json:"type,omitempty"`
	Selector           *string      `json:"selector,omitempty"`
	WaitFor            *string      `json:"waitFor,omitempty"`
	Timeout            *int         `json:"timeout,omitempty"`
	DarkMode           *bool        `json:"darkMode,omitempty"`
	BlockAds           *bool        `json:"blockAds,omitempty"`
	BlockCookieBanners *bool        `json:"blockCookieBanners,omitempty"`
	IncludeImages      *bool        `json:"includeImages,omitempty"`
	MaxLength          *int         `json:"maxLength,omitempty"`
	CleanOutput        *bool        `json:"cleanOutput,omitempty"`
}

// AnalyzeOptions asks an LLM provider to analyze a page. APIKey is the
// provider's key (for example an OpenAI key), not the SnapAPI key.
type AnalyzeOptions struct {
	URL                string  `json:"url"`
	Prompt             string  `json:"prompt"`
	Provider           *string `json:"provider,omitempty"`
	APIKey             string  `json:"apiKey"`
	Model              *string `json:"model,omitempty"`
	JSONSchema         *Value  `json:"jsonSchema,omitempty"`
	Timeout            *int    `json:"timeout,omitempty"`
	WaitFor            *string `json:"waitFor,omitempty"`
	BlockAds           *bool   `json:"blockAds,omitempty"`
	BlockCookieBanners *bool   `json:"blockCookieBanners,omitempty"`
	IncludeScreenshot  *bool   `json:"includeScreenshot,omitempty"`
	IncludeMetadata    *bool   `json:"includeMetadata,omitempty"`
	MaxContentLength   *int    `json:"maxContentLength,omitempty"`
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

package snapapi

import "encoding/base64"

// JobStatus is the server-reported state of an asynchronous job. Values the
// client does not know are kept verbatim.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IsTerminal reports whether polling should stop.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// PingResult is the /v1/ping response.
type PingResult struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ScreenshotMetadata is page information returned with JSON screenshots.
type ScreenshotMetadata struct {
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Favicon        string   `json:"favicon,omitempty"`
	OGTitle        string   `json:"ogTitle,omitempty"`
	OGDescription  string   `json:"ogDescription,omitempty"`
	OGImage        string   `json:"ogImage,omitempty"`
	HTTPStatusCode int      `json:"httpStatusCode,omitempty"`
	Fonts          []string `json:"fonts,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	Links          []string `json:"links,omitempty"`
}

// ScreenshotResult is the JSON form of a capture. Data and Thumbnail are base64.
type ScreenshotResult struct {
	Success   bool                `json:"success"`
	Data      string              `json:"data"`
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	FileSize  int                 `json:"fileSize"`
	Took      int                 `json:"took"`
	Format    string              `json:"format"`
	Cached    bool                `json:"cached"`
	Metadata  *ScreenshotMetadata `json:"metadata,omitempty"`
	Thumbnail string              `json:"thumbnail,omitempty"`
}

// ImageData decodes Data. A data URL prefix is tolerated.
func (r *ScreenshotResult) ImageData() ([]byte, error) {
	return decodeBase64(r.Data)
}

// ThumbnailData decodes Thumbnail; it returns nil when no thumbnail was requested.
func (r *ScreenshotResult) ThumbnailData() ([]byte, error) {
	if r.Thumbnail == "" {
		return nil, nil
	}
	return decodeBase64(r.Thumbnail)
}

// VideoResult is the JSON form of a video capture.
type VideoResult struct {
	Success  bool   `json:"success"`
	Data     string `json:"data,omitempty"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int    `json:"fileSize"`
	Duration int    `json:"duration"`
	Took     int    `json:"took"`
}

// VideoData decodes Data.
func (r *VideoResult) VideoData() ([]byte, error) {
	return decodeBase64(r.Data)
}

// AsyncJob is returned when an async screenshot is queued.
type AsyncJob struct {
	Success   bool      `json:"success"`
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	StatusURL string    `json:"statusUrl,omitempty"`
}

// AsyncScreenshotStatus is one poll of an async screenshot job. Result is set
// once the job completed; Error once it failed.
type AsyncScreenshotStatus struct {
	Success     bool              `json:"success"`
	JobID       string            `json:"jobId"`
	Status      JobStatus         `json:"status"`
	Result      *ScreenshotResult `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	CompletedAt string            `json:"completedAt,omitempty"`
}

func (s *AsyncScreenshotStatus) jobStatus() JobStatus { return s.Status }

// BatchResult acknowledges a queued batch.
type BatchResult struct {
	Success   bool      `json:"success"`
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	Total     int       `json:"total"`
	Completed int       `json:"completed,omitempty"`
	Failed    int       `json:"failed,omitempty"`
}

// BatchItemResult is the outcome of one URL in a batch job.
type BatchItemResult struct {
	URL      string    `json:"url"`
	Status   JobStatus `json:"status"`
	Data     string    `json:"data,omitempty"`
	Error    string    `json:"error,omitempty"`
	Duration int       `json:"duration,omitempty"`
}

// ImageData decodes Data.
func (r *BatchItemResult) ImageData() ([]byte, error) {
	return decodeBase64(r.Data)
}

// BatchStatus is one poll of a batch job.
type BatchStatus struct {
	Success     bool              `json:"success"`
	JobID       string            `json:"jobId"`
	Status      JobStatus         `json:"status"`
	Total       int               `json:"total"`
	Completed   int               `json:"completed"`
	Failed      int               `json:"failed"`
	Results     []BatchItemResult `json:"results,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	CompletedAt string            `json:"completedAt,omitempty"`
}

func (s *BatchStatus) jobStatus() JobStatus { return s.Status }

// DeviceInfo describes one device preset.
type DeviceInfo struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	DeviceScaleFactor float64 `json:"deviceScaleFactor"`
	IsMobile          bool    `json:"isMobile"`
}

// DevicesResult groups devices by category (desktop, mobile, tablet, ...).
type DevicesResult struct {
	Success bool                    `json:"success"`
	Devices map[string][]DeviceInfo `json:"devices"`
	Total   int                     `json:"total"`
}

// CapabilitiesResult is the /v1/capabilities response.
type CapabilitiesResult struct {
	Success      bool             `json:"success"`
	Version      string           `json:"version"`
	Capabilities map[string]Value `json:"capabilities"`
}

// UsageResult reports quota usage for the API key.
type UsageResult struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetAt   string `json:"resetAt"`
}

// ExtractResult carries the extracted payload. Data is a string for
// markdown/text/html and an object or array for the other types; use the
// typed helpers or Data.Decode.
type ExtractResult struct {
	Success      bool   `json:"success"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	Data         Value  `json:"data"`
	ResponseTime int    `json:"responseTime"`
}

// Text returns Data when it is a string.
func (r *ExtractResult) Text() (string, bool) {
	return r.Data.AsString()
}

// Article decodes Data for ExtractTypeArticle results.
func (r *ExtractResult) Article() (*ExtractArticle, error) {
	var out ExtractArticle
	if err := r.decodeData(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Structured decodes Data for ExtractTypeStructured results.
func (r *ExtractResult) Structured() (*ExtractStructured, error) {
	var out ExtractStructured
	if err := r.decodeData(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Links decodes Data for ExtractTypeLinks results.
func (r *ExtractResult) Links() ([]ExtractLink, error) {
	var out []ExtractLink
	if err := r.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Images decodes Data for ExtractTypeImages results.
func (r *ExtractResult) Images() ([]ExtractImage, error) {
	var out []ExtractImage
	if err := r.decodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// PageMetadata decodes Data for ExtractTypeMetadata results.
func (r *ExtractResult) PageMetadata() (*ExtractPageMetadata, error) {
	var out ExtractPageMetadata
	if err := r.decodeData(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ExtractResult) decodeData(dst any) error {
	if err := r.Data.Decode(dst); err != nil {
		return &Error{Code: CodeDecodeError, Message: "decode extract data: " + err.Error(), StatusCode: 200, cause: err}
	}
	return nil
}

// ExtractArticle is the article extract payload.
type ExtractArticle struct {
	Title         string `json:"title"`
	Byline        string `json:"byline,omitempty"`
	Content       string `json:"content"`
	TextContent   string `json:"textContent,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Length        int    `json:"length,omitempty"`
	ReadingTime   int    `json:"readingTime,omitempty"`
}

// ExtractStructured is the structured extract payload.
type ExtractStructured struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedTime string `json:"publishedTime"`
	Description   string `json:"description"`
	Image         string `json:"image,omitempty"`
	WordCount     int    `json:"wordCount"`
	Content       string `json:"content"`
}

// ExtractLink is one extracted link.
type ExtractLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ExtractImage is one extracted image.
type ExtractImage struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ExtractPageMetadata is the metadata extract payload.
type ExtractPageMetadata struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Keywords      string `json:"keywords,omitempty"`
	Author        string `json:"author,omitempty"`
	OGTitle       string `json:"ogTitle,omitempty"`
	OGDescription string `json:"ogDescription,omitempty"`
	OGImage       string `json:"ogImage,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
	Favicon       string `json:"favicon,omitempty"`
}

// AnalyzeResult is the LLM output. Analysis is a string for free-form prompts
// and an object when a JSON schema was supplied.
type AnalyzeResult struct {
	Success      bool   `json:"success"`
	URL          string `json:"url"`
	Metadata     Value  `json:"metadata"`
	Analysis     Value  `json:"analysis"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	ResponseTime int    `json:"responseTime"`
}

func decodeBase64(s string) ([]byte, error) {
	if i := indexDataURLComma(s); i >= 0 {
		s = s[i+1:]
	}
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &Error{Code: CodeDecodeError, Message: "decode base64: " + err.Error(), StatusCode: 200, cause: err}
	}
	return out, nil
}

// indexDataURLComma returns the comma of a "data:<mime>;base64," prefix, or -1.
func indexDataURLComma(s string) int {
	const prefix = "data:"
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return -1
	}
	for i := len(prefix); i < len(s); i++ {
		if s[i] == ',' {
			return i
		}
	}
	return -1
}

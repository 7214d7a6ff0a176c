package googletts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lectern/internal/services"
	"lectern/internal/synth"
)

const userAgent = "Lectern-Go/0.1.0"

// Client calls the Google Cloud Text-to-Speech REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// Option adjusts client construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient substitutes the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxRetries sets how many times retryable responses are retried.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.maxRetries = retries
		}
	}
}

// WithRetryBackoff sets the base delay between retries, primarily for tests.
func WithRetryBackoff(backoff time.Duration) Option {
	return func(c *Client) {
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// New builds a Client. The API key is required; timeout bounds each request.
func New(apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "synthesis", "configure client",
			"missing API key: set tts.api_key or GOOGLE_TTS_API_KEY", nil)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		baseURL:    "https://texttospeech.googleapis.com/v1",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 3,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type synthesisInput struct {
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
	SSMLGender   string `json:"ssmlGender,omitempty"`
}

type audioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
	Pitch         float64 `json:"pitch,omitempty"`
	VolumeGainDB  float64 `json:"volumeGainDb,omitempty"`
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceSelection `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Synthesize sends one synthesis request and decodes the MP3 payload.
func (c *Client) Synthesize(ctx context.Context, req synth.Request) (synth.Clip, error) {
	body := synthesizeRequest{
		Voice: voiceSelection{LanguageCode: req.Language},
		AudioConfig: audioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  req.SpeakingRate,
			Pitch:         req.Pitch,
			VolumeGainDB:  req.VolumeGainDB,
		},
	}
	if req.SSML {
		body.Input.SSML = req.Text
	} else {
		body.Input.Text = req.Text
	}
	if strings.Contains(req.Voice, "-") {
		body.Voice.Name = req.Voice
	} else {
		body.Voice.SSMLGender = strings.ToUpper(req.Voice)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return synth.Clip{}, services.Wrap(services.ErrSynthesis, "synthesis", "encode request", "", err)
	}

	respBody, err := c.post(ctx, "/text:synthesize", payload)
	if err != nil {
		return synth.Clip{}, err
	}

	var decoded synthesizeResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return synth.Clip{}, services.Wrap(services.ErrSynthesis, "synthesis", "decode response", "", err)
	}
	if decoded.AudioContent == "" {
		return synth.Clip{}, services.Wrap(services.ErrSynthesis, "synthesis", "decode response", "response carried no audio", nil)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return synth.Clip{}, services.Wrap(services.ErrSynthesis, "synthesis", "decode audio", "", err)
	}
	return synth.Clip{Audio: audio}, nil
}

type voicesResponse struct {
	Voices []struct {
		Name            string   `json:"name"`
		LanguageCodes   []string `json:"languageCodes"`
		SSMLGender      string   `json:"ssmlGender"`
		SampleRateHertz int      `json:"naturalSampleRateHertz"`
	} `json:"voices"`
}

// Voices lists the voices the provider offers for a language.
func (c *Client) Voices(ctx context.Context, language string) ([]synth.Voice, error) {
	endpoint := "/voices"
	if language != "" {
		endpoint += "?languageCode=" + url.QueryEscape(language)
	}
	respBody, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var decoded voicesResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, services.Wrap(services.ErrSynthesis, "synthesis", "decode voices", "", err)
	}

	voices := make([]synth.Voice, 0, len(decoded.Voices))
	for _, v := range decoded.Voices {
		voices = append(voices, synth.Voice{
			Name:          v.Name,
			LanguageCodes: v.LanguageCodes,
			Gender:        synth.Gender(v.SSMLGender),
			SampleRateHz:  v.SampleRateHertz,
			Premium:       isPremiumVoice(v.Name),
		})
	}
	return voices, nil
}

func isPremiumVoice(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "wavenet") || strings.Contains(lower, "neural") || strings.Contains(lower, "studio")
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, payload)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// do issues the request, retrying on rate limiting and server errors with
// linear backoff.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if strings.Contains(requestURL, "?") {
		requestURL += "&key=" + url.QueryEscape(c.apiKey)
	} else {
		requestURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, services.Wrap(services.ErrSynthesis, "synthesis", "build request", "", err)
		}
		req.Header.Set("User-Agent", userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json; charset=utf-8")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = services.Wrap(services.ErrSynthesis, "synthesis", "send request", "", err)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
		resp.Body.Close()
		if readErr != nil {
			lastErr = services.Wrap(services.ErrSynthesis, "synthesis", "read response", "", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		detail := apiErrorDetail(resp.StatusCode, body)
		if retryable(resp.StatusCode) {
			lastErr = services.Wrap(services.ErrSynthesis, "synthesis", "call api", detail, nil)
			continue
		}
		return nil, services.Wrap(services.ErrSynthesis, "synthesis", "call api", detail, nil)
	}
	return nil, lastErr
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func apiErrorDetail(status int, body []byte) string {
	var decoded apiError
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		return fmt.Sprintf("provider returned %d: %s", status, decoded.Error.Message)
	}
	return fmt.Sprintf("provider returned %d", status)
}

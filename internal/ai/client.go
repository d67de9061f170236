package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"echoverse/internal/models"
)

const (
	mockLatency     = 800 * time.Millisecond
	requestTimeout  = 30 * time.Second
	historyWindow   = 10
	analyzeAction   = "analyze"
	connectAction   = "connect"
	mockSummary     = "This is a mock summary of your journal entry. The AI would normally provide a concise overview of your thoughts here."
	fallbackSummary = "Sorry, I couldn't generate an analysis right now. Please try again later."

	needMoreEntriesInsight = "You need at least 3 journal entries for me to find connections. Keep up your journaling habit!"
	noPatternInsight       = "I looked through your recent entries, but couldn't find a clear connection just yet. Keep journaling, and I'll try again soon!"
	failedInsight          = "Sorry, I couldn't generate your connection insights right now. Please try again in a bit."
)

// Client talks to the hosted analysis proxy. Every operation degrades to a
// mock or canned result on failure: a journal save must never fail because
// the AI is unreachable or unconfigured.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger

	// simulated latency for the no-network mock path; shortened in tests
	mockDelay time.Duration
}

// NewClient creates a client for the proxy at baseURL. An empty baseURL
// means the service is unconfigured and every call degrades immediately.
func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
		mockDelay:  mockLatency,
	}
}

func mockAnalysis() models.AnalysisResult {
	return models.AnalysisResult{
		DetectedMood: models.MoodNeutral,
		Summary:      mockSummary,
		Sentiment:    "Neutral",
		Rating:       5,
		Themes:       []string{"mock", "testing"},
	}
}

func fallbackAnalysis() models.AnalysisResult {
	result := mockAnalysis()
	result.Summary = fallbackSummary
	return result
}

type proxyRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type analyzePayload struct {
	Note string `json:"note"`
}

// entrySummary is the per-entry slice of history the connect action sees:
// just enough signal for a pattern observation, nothing more.
type entrySummary struct {
	Date    string      `json:"date"`
	Mood    models.Mood `json:"mood"`
	Summary string      `json:"summary"`
}

type connectPayload struct {
	History []entrySummary `json:"history"`
}

type connectResponse struct {
	Insight string `json:"insight"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// Analyze returns the mood analysis for a note. Empty or whitespace-only
// notes are not sent for analysis; they get the fixed mock result after a
// short simulated latency.
func (c *Client) Analyze(ctx context.Context, note string) models.AnalysisResult {
	if strings.TrimSpace(note) == "" {
		select {
		case <-time.After(c.mockDelay):
		case <-ctx.Done():
		}
		return mockAnalysis()
	}

	if c.baseURL == "" {
		return fallbackAnalysis()
	}

	var result models.AnalysisResult
	err := c.post(ctx, proxyRequest{Action: analyzeAction, Payload: analyzePayload{Note: note}}, &result)
	if err != nil {
		c.log.Warn("analysis degraded to mock", zap.Error(err))
		return fallbackAnalysis()
	}
	if !result.DetectedMood.Valid() || result.Rating < 1 || result.Rating > 10 {
		c.log.Warn("analysis response outside contract, using mock",
			zap.String("mood", string(result.DetectedMood)), zap.Int("rating", result.Rating))
		return fallbackAnalysis()
	}
	return result
}

// FindConnections asks for one gentle pattern observation over the most
// recent entries. Canned strings distinguish "not enough entries", "no
// pattern found" and "service failed".
func (c *Client) FindConnections(ctx context.Context, history []models.JournalEntry) string {
	if len(history) < 3 {
		return needMoreEntriesInsight
	}
	if c.baseURL == "" {
		return failedInsight
	}

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	summaries := make([]entrySummary, 0, len(recent))
	for _, entry := range recent {
		summaries = append(summaries, entrySummary{
			Date:    entry.Date.Format(time.RFC3339),
			Mood:    entry.DetectedMood,
			Summary: entry.Summary,
		})
	}

	var resp connectResponse
	err := c.post(ctx, proxyRequest{Action: connectAction, Payload: connectPayload{History: summaries}}, &resp)
	if err != nil {
		c.log.Warn("connections degraded to canned insight", zap.Error(err))
		return failedInsight
	}
	if resp.Insight == "" {
		return noPatternInsight
	}
	return resp.Insight
}

// CheckAvailability probes whether the backing service is configured and
// reachable. The result powers a status badge only; Analyze and
// FindConnections never consult it.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("availability probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var avail availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&avail); err != nil {
		return false
	}
	return avail.Available
}

func (c *Client) post(ctx context.Context, body proxyRequest, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

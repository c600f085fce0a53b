// Package aiclient is a small HTTP client for the AI gateway endpoint. It is
// the consumer-side counterpart of the server's action dispatch and carries
// the same degradation behavior: conversational tools fall back to a canned
// Spanish apology instead of surfacing transport errors.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
)

const defaultTimeout = 60 * time.Second

// Fallback messages returned by the forgiving tools when the gateway is
// unreachable or responds with an error.
const (
	chatFallback  = "Lo siento, estoy teniendo problemas para conectarme. Intenta de nuevo en un momento."
	imageFallback = "No pude analizar la imagen. Por favor, asegúrate de que sea una imagen válida."
	videoFallback = "No pude analizar el video. Por favor, intenta con un video más corto o en otro formato."
)

// Errors returned by the strict tools. Callers show these to the user as-is.
var (
	ErrMealPlan = errors.New("Hubo un error al generar el plan de comidas. Por favor, inténtalo de nuevo.")
	ErrSearch   = errors.New("Hubo un error al realizar la búsqueda. Intenta de nuevo.")
	ErrPlaces   = errors.New("Hubo un error al buscar veterinarias. Intenta de nuevo.")
)

// Location is a latitude/longitude pair for nearby-place lookups.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client calls the gateway's single AI endpoint with an action envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the gateway at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Action      string             `json:"action"`
	Profile     *models.DogProfile `json:"profile,omitempty"`
	Message     string             `json:"message,omitempty"`
	History     []service.ChatTurn `json:"history,omitempty"`
	Base64Image string             `json:"base64Image,omitempty"`
	Base64Video string             `json:"base64Video,omitempty"`
	MimeType    string             `json:"mimeType,omitempty"`
	Query       string             `json:"query,omitempty"`
	Location    *Location          `json:"location,omitempty"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (c *Client) call(ctx context.Context, req request, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/ai", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			return errors.New(errBody.Error)
		}
		return fmt.Errorf("server responded with status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GenerateMealPlan asks for a personalized weekly plan for the profile.
func (c *Client) GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := c.call(ctx, request{Action: "generateMealPlan", Profile: &profile}, &plan); err != nil {
		return nil, ErrMealPlan
	}
	return &plan, nil
}

// ChatResponse sends a chat message with prior history. Failures come back as
// an in-band apology so the conversation UI never breaks.
func (c *Client) ChatResponse(ctx context.Context, message string, history []service.ChatTurn) string {
	var out textResponse
	if err := c.call(ctx, request{Action: "getChatResponse", Message: message, History: history}, &out); err != nil {
		return chatFallback
	}
	return out.Text
}

// AnalyzeImage describes a base64-encoded dog photo.
func (c *Client) AnalyzeImage(ctx context.Context, base64Image, mimeType string) string {
	var out textResponse
	if err := c.call(ctx, request{Action: "analyzeImage", Base64Image: base64Image, MimeType: mimeType}, &out); err != nil {
		return imageFallback
	}
	return out.Text
}

// AnalyzeVideo describes a base64-encoded dog video.
func (c *Client) AnalyzeVideo(ctx context.Context, base64Video, mimeType string) string {
	var out textResponse
	if err := c.call(ctx, request{Action: "analyzeVideo", Base64Video: base64Video, MimeType: mimeType}, &out); err != nil {
		return videoFallback
	}
	return out.Text
}

// SearchWithGrounding runs a web-grounded search and returns the raw response
// envelope, grounding metadata included.
func (c *Client) SearchWithGrounding(ctx context.Context, query string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, request{Action: "searchWithGrounding", Query: query}, &out); err != nil {
		return nil, ErrSearch
	}
	return out, nil
}

// FindNearbyPlaces looks up places near the given location.
func (c *Client) FindNearbyPlaces(ctx context.Context, query string, loc Location) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, request{Action: "findNearbyPlaces", Query: query, Location: &loc}, &out); err != nil {
		return nil, ErrPlaces
	}
	return out, nil
}

// GetPlan fetches a background-generated meal plan by quiz submission id.
// A nil plan with nil error means the plan is not ready yet.
func (c *Client) GetPlan(ctx context.Context, submissionID string) (*models.MealPlan, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/ai/plans/"+submissionID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var plan models.MealPlan
		if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
			return nil, err
		}
		return &plan, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("server responded with status %d", resp.StatusCode)
	}
}

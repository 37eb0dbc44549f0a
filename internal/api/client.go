// Package api wraps the room management HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
)

// StatusError is a non-2xx API response with its body text.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.Status, e.Body)
}

// Client talks to the room API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

type createRoomResponse struct {
	RoomCode string      `json:"roomCode"`
	Room     domain.Room `json:"room"`
}

type endRoomResponse struct {
	Success bool `json:"success"`
}

// CreateRoom asks the backend to create a new room.
func (c *Client) CreateRoom(ctx context.Context) (domain.Room, error) {
	var resp createRoomResponse
	if err := c.do(ctx, http.MethodPost, "/rooms/create", &resp); err != nil {
		return domain.Room{}, err
	}
	if resp.Room.RoomCode == "" {
		resp.Room.RoomCode = resp.RoomCode
	}
	return resp.Room, nil
}

// RoomInfo looks a room up by code. A 404 is reported as ErrRoomNotFound.
func (c *Client) RoomInfo(ctx context.Context, roomCode string) (domain.RoomInfo, error) {
	var info domain.RoomInfo
	err := c.do(ctx, http.MethodGet, "/rooms/"+roomCode, &info)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		return domain.RoomInfo{}, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomCode)
	}
	if err != nil {
		return domain.RoomInfo{}, err
	}
	return info, nil
}

// EndRoom marks a room inactive. The room lifecycle is backend
// authoritative; callers must not treat a failed call as ended.
func (c *Client) EndRoom(ctx context.Context, roomCode string) error {
	var resp endRoomResponse
	if err := c.do(ctx, http.MethodPost, "/rooms/"+roomCode+"/end", &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("backend refused to end the room")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build api request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// apiClient speaks the public HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, httpClient *http.Client) *apiClient {
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *apiClient) register(ctx context.Context, username, password string) error {
	body := map[string]string{
		"username":         username,
		"password":         password,
		"password_confirm": password,
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/register", "", body, http.StatusCreated, nil)
}

func (c *apiClient) login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", "", body, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *apiClient) like(ctx context.Context, token, vlogID string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/vlogs/"+vlogID+"/like", token, nil, http.StatusOK, nil)
}

func (c *apiClient) comment(ctx context.Context, token, vlogID, text string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/vlogs/"+vlogID+"/comments", token,
		map[string]string{"text": text}, http.StatusCreated, nil)
}

func (c *apiClient) createVlog(ctx context.Context, token string, v vlogPayload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       v.Title,
		"content":     v.Content,
		"description": v.Description,
		"tag":         v.Tag,
	}
	for k, val := range fields {
		if err := mw.WriteField(k, val); err != nil {
			return "", err
		}
	}
	if err := writeFile(mw, "cover", "cover.png", v.Cover); err != nil {
		return "", err
	}
	for i, img := range v.Images {
		if err := writeFile(mw, "images", fmt.Sprintf("image-%d.png", i), img); err != nil {
			return "", err
		}
	}
	if v.Document != "" {
		if err := writeFile(mw, "documents", "notes.txt", []byte(v.Document)); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/vlogs", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func writeFile(mw *multipart.Writer, field, name string, data []byte) error {
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func (c *apiClient) doJSON(ctx context.Context, method, path, token string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, want, out)
}

func (c *apiClient) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

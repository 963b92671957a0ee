// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

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

	"github.com/pdiddy/pdfops/internal/httputil"
)

// Base URLs for the Microsoft identity platform and the Graph API.
// Declared as vars so tests can substitute an httptest server.
var (
	graphLoginBase = "https://login.microsoftonline.com"
	graphAPIBase   = "https://graph.microsoft.com/v1.0"
)

// Credentials holds the app registration used for the client-credentials
// flow. The app needs the Mail.Send application permission.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// CredentialsFromSecrets builds Credentials from the secrets directory
// keys ms-tenant-id, ms-client-id, and ms-client-secret.
func CredentialsFromSecrets(sec map[string]string) (Credentials, error) {
	c := Credentials{
		TenantID:     sec["ms-tenant-id"],
		ClientID:     sec["ms-client-id"],
		ClientSecret: sec["ms-client-secret"],
	}
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("missing Graph credentials: need ms-tenant-id, ms-client-id, ms-client-secret")
	}
	return c, nil
}

// Client is a minimal Microsoft Graph mail client. It acquires an app
// token on demand and caches it until shortly before expiry.
type Client struct {
	httpClient *http.Client
	creds      Credentials
	maxRetries int

	token  string
	expiry time.Time
}

// NewClient builds a Graph client with the given request timeout.
func NewClient(creds Credentials, timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		maxRetries: maxRetries,
	}
}

// Attachment is one file to attach to an outgoing message.
type Attachment struct {
	Name string
	Data []byte
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached app token, fetching a fresh one via the
// client-credentials grant when the cache is empty or about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
		"grant_type":    {"client_credentials"},
	}
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", graphLoginBase, c.creds.TenantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token endpoint returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token")
	}

	c.token = tr.AccessToken
	c.expiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// SendMail sends one message with optional PDF attachments from the
// sender mailbox via POST /users/{sender}/sendMail. Graph answers 202
// Accepted on success.
func (c *Client) SendMail(ctx context.Context, sender, to, subject, body string, attachments []Attachment) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	type emailAddress struct {
		Address string `json:"address"`
	}
	type recipient struct {
		EmailAddress emailAddress `json:"emailAddress"`
	}
	type fileAttachment struct {
		ODataType    string `json:"@odata.type"`
		Name         string `json:"name"`
		ContentType  string `json:"contentType"`
		ContentBytes string `json:"contentBytes"`
	}

	msg := map[string]any{
		"subject": subject,
		"body": map[string]string{
			"contentType": "Text",
			"content":     body,
		},
		"toRecipients": []recipient{{EmailAddress: emailAddress{Address: to}}},
	}
	if len(attachments) > 0 {
		atts := make([]fileAttachment, len(attachments))
		for i, a := range attachments {
			atts[i] = fileAttachment{
				ODataType:    "#microsoft.graph.fileAttachment",
				Name:         a.Name,
				ContentType:  "application/pdf",
				ContentBytes: base64.StdEncoding.EncodeToString(a.Data),
			}
		}
		msg["attachments"] = atts
	}

	payload, err := json.Marshal(map[string]any{
		"message":         msg,
		"saveToSentItems": true,
	})
	if err != nil {
		return fmt.Errorf("marshaling sendMail payload: %w", err)
	}

	sendURL := fmt.Sprintf("%s/users/%s/sendMail", graphAPIBase, url.PathEscape(sender))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating sendMail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("sendMail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMail returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

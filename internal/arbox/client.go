package arbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/om-ka/crossfit-registration/internal/domain/booking"
)

// Client talks to the Arbox mobile API (apiappv2). The header set mimics the
// official Android client; requests without it get blocked at the CDN.
type Client struct {
	hc   *http.Client
	base string

	// sentry trace pair, fixed for the client's lifetime the way one app
	// session would send it
	traceID string
	spanID  string
}

const (
	defaultBaseURL = "https://apiappv2.arboxapp.com/api/v2"

	// the mobile app appends this to every non-login call
	xdebugQuery = "XDEBUG_SESSION_START=PHPSTORM"

	sentryPublicKey = "7437b901fcd6fce680d9a9f6fdc73063"
)

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	trace := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Client{
		hc:      &http.Client{Timeout: 15 * time.Second},
		base:    strings.TrimRight(baseURL, "/"),
		traceID: trace,
		spanID:  trace[:16],
	}
}

// Login exchanges credentials for a token pair. Both tokens must be present
// in the response or the session is unusable.
func (c *Client) Login(ctx context.Context, email, password string) (booking.Session, error) {
	body := map[string]string{"email": email, "password": password}
	status, b, err := c.do(ctx, http.MethodPost, c.base+"/user/login", nil, body)
	if err != nil {
		return booking.Session{}, err
	}
	if status != 200 {
		return booking.Session{}, fmt.Errorf("login failed (status=%d): %s", status, trimBody(b))
	}

	var res struct {
		Data struct {
			ID           int64  `json:"id"`
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`

			// the payload has carried the membership id under several
			// names across app versions
			MembershipUserID  *int64 `json:"membership_user_id"`
			MembershipUserID2 *int64 `json:"membershipUserId"`
			MembershipUserID3 *int64 `json:"membershipsUserId"`
			MembershipUserID4 *int64 `json:"membershipId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return booking.Session{}, fmt.Errorf("parse login response: %w", err)
	}
	if res.Data.Token == "" || res.Data.RefreshToken == "" {
		return booking.Session{}, booking.ErrLoginTokens
	}

	s := booking.Session{
		Token:        res.Data.Token,
		RefreshToken: res.Data.RefreshToken,
		UserID:       res.Data.ID,
	}
	for _, id := range []*int64{
		res.Data.MembershipUserID,
		res.Data.MembershipUserID2,
		res.Data.MembershipUserID3,
		res.Data.MembershipUserID4,
	} {
		if id != nil {
			s.MembershipUserID = *id
			break
		}
	}
	return s, nil
}

// FindClass queries the schedule for date at the given location and returns
// the first entry whose start time string-matches startTime exactly. The
// upstream reports times as zero-padded "HH:MM", so no normalization is done.
func (c *Client) FindClass(ctx context.Context, s booking.Session, date time.Time, startTime string, locationID, boxID int) (booking.ScheduleMatch, error) {
	dateISO := date.Format("2006-01-02") + "T00:00:00.000Z"
	body := map[string]any{
		"from":             dateISO,
		"to":               dateISO,
		"locations_box_id": locationID,
		"boxes_id":         boxID,
	}
	status, b, err := c.do(ctx, http.MethodPost, c.base+"/schedule/betweenDates?"+xdebugQuery, &s, body)
	if err != nil {
		return booking.ScheduleMatch{}, err
	}
	if status != 200 {
		return booking.ScheduleMatch{}, fmt.Errorf("schedule query failed (status=%d): %s", status, trimBody(b))
	}

	var res struct {
		Data []struct {
			ID    int64  `json:"id"`
			Time  string `json:"time"`
			BoxFk int    `json:"box_fk"`
			Box   struct {
				ID int `json:"id"`
			} `json:"box"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return booking.ScheduleMatch{}, fmt.Errorf("parse schedule response: %w", err)
	}

	for _, entry := range res.Data {
		if entry.Time != startTime {
			continue
		}
		box := entry.BoxFk
		if box == 0 {
			box = entry.Box.ID
		}
		if entry.ID != 0 && box != 0 {
			return booking.ScheduleMatch{ScheduleID: entry.ID, BoxID: box}, nil
		}
	}
	return booking.ScheduleMatch{}, fmt.Errorf("no class starting at %s on %s: %w",
		startTime, date.Format("2006-01-02"), booking.ErrClassNotFound)
}

// MembershipUserID returns the caller's membership id for the given box and
// membership-type code, taking the first entry the endpoint lists.
func (c *Client) MembershipUserID(ctx context.Context, s booking.Session, boxID, membershipType int) (int64, error) {
	url := fmt.Sprintf("%s/boxes/%d/memberships/%d/false?%s", c.base, boxID, membershipType, xdebugQuery)
	status, b, err := c.do(ctx, http.MethodGet, url, &s, nil)
	if err != nil {
		return 0, err
	}
	if status != 200 {
		return 0, fmt.Errorf("membership query failed (status=%d): %s", status, trimBody(b))
	}

	var res struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return 0, fmt.Errorf("%w: %v", booking.ErrNoMembership, err)
	}
	if len(res.Data) == 0 || res.Data[0].ID == 0 {
		return 0, booking.ErrNoMembership
	}
	return res.Data[0].ID, nil
}

// Register submits the booking. 200 returns the raw payload, 516 is the
// upstream's "class full" code, anything else is a RegistrationError with
// the server's user-facing message when one is present.
func (c *Client) Register(ctx context.Context, s booking.Session, scheduleID, membershipUserID int64) (string, error) {
	body := map[string]any{
		"schedule_id":        scheduleID,
		"membership_user_id": membershipUserID,
		"extras":             map[string]any{"spot": nil},
	}
	status, b, err := c.do(ctx, http.MethodPost, c.base+"/scheduleUser/insert?"+xdebugQuery, &s, body)
	if err != nil {
		return "", err
	}
	switch {
	case status == 200:
		return string(b), nil
	case status == 516:
		return "", fmt.Errorf("%w (status 516)", booking.ErrClassFull)
	default:
		msg := string(b)
		var parsed struct {
			Error struct {
				MessageToUser string `json:"messageToUser"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &parsed) == nil && parsed.Error.MessageToUser != "" {
			msg = parsed.Error.MessageToUser
		}
		return "", &booking.RegistrationError{Status: status, Message: msg}
	}
}

func (c *Client) do(ctx context.Context, method, rawURL string, s *booking.Session, payload any) (int, []byte, error) {
	var rd io.Reader
	if payload != nil {
		jb, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(jb)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "okhttp/4.9.2")
	req.Header.Set("referername", "app")
	req.Header.Set("version", "13")
	req.Header.Set("whitelabel", "Arbox")
	if s != nil {
		req.Header.Set("accesstoken", s.Token)
		if s.RefreshToken != "" {
			req.Header.Set("refreshtoken", s.RefreshToken)
		}
		req.Header.Set("sentry-trace", c.traceID+"-"+c.spanID)
		req.Header.Set("baggage", fmt.Sprintf(
			"sentry-environment=production,sentry-public_key=%s,sentry-trace_id=%s",
			sentryPublicKey, c.traceID))
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}

func trimBody(b []byte) string {
	const max = 512
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

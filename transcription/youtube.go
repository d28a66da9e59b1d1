package transcription

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	maxPageBytes   = 8 << 20
)

var (
	playabilityPattern = regexp.MustCompile(`"playabilityStatus":\s*\{\s*"status":\s*"([A-Z_]+)"`)
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
)

// YouTubeProvider reads captions the way the watch page does: it pulls the
// caption track list out of the embedded player response and downloads the
// timed text XML for one track.
type YouTubeProvider struct {
	Client  *http.Client
	BaseURL string
	// Language is the preferred caption language code. Empty takes the first
	// track.
	Language string
}

func NewYouTubeProvider(language string) *YouTubeProvider {
	return &YouTubeProvider{
		Client:   &http.Client{Timeout: 30 * time.Second},
		BaseURL:  defaultBaseURL,
		Language: language,
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionsRenderer struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

type timedText struct {
	Texts []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Text     string  `xml:",chardata"`
	} `xml:"text"`
}

func (p *YouTubeProvider) FetchFragments(ctx context.Context, videoID string) ([]Fragment, error) {
	watchURL := p.BaseURL + "/watch?v=" + url.QueryEscape(videoID)
	page, err := p.get(ctx, watchURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetching watch page")
	}

	tracks, err := parseCaptionTracks(videoID, string(page))
	if err != nil {
		return nil, err
	}

	track, err := pickTrack(videoID, tracks, p.Language)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"language": track.LanguageCode,
		"kind":     track.Kind,
	}).Debug("Selected caption track")

	body, err := p.get(ctx, strings.Replace(track.BaseURL, "&fmt=srv3", "", 1))
	if err != nil {
		return nil, errors.Wrap(err, "fetching caption track")
	}

	return parseTimedText(body)
}

func (p *YouTubeProvider) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

func parseCaptionTracks(videoID, page string) ([]captionTrack, error) {
	parts := strings.SplitN(page, `"captions":`, 2)
	if len(parts) < 2 {
		if strings.Contains(page, `class="g-recaptcha"`) {
			return nil, errors.New("too many requests, captcha required")
		}
		m := playabilityPattern.FindStringSubmatch(page)
		if m == nil || m[1] != "OK" {
			return nil, &Error{Kind: KindUnavailable, VideoID: videoID}
		}
		return nil, &Error{Kind: KindDisabled, VideoID: videoID}
	}

	end := strings.Index(parts[1], `,"videoDetails`)
	if end < 0 {
		return nil, &Error{Kind: KindDisabled, VideoID: videoID}
	}

	var captions captionsRenderer
	if err := json.Unmarshal([]byte(parts[1][:end]), &captions); err != nil {
		return nil, &Error{Kind: KindDisabled, VideoID: videoID, Err: err}
	}

	tracks := captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &Error{Kind: KindNotFound, VideoID: videoID}
	}
	return tracks, nil
}

// pickTrack prefers a manually created track over an auto-generated one.
func pickTrack(videoID string, tracks []captionTrack, language string) (captionTrack, error) {
	if language == "" {
		return tracks[0], nil
	}

	var generated *captionTrack
	for i, track := range tracks {
		if track.LanguageCode != language {
			continue
		}
		if track.Kind != "asr" {
			return track, nil
		}
		if generated == nil {
			generated = &tracks[i]
		}
	}
	if generated != nil {
		return *generated, nil
	}

	available := make([]string, len(tracks))
	for i, track := range tracks {
		available[i] = track.LanguageCode
	}
	return captionTrack{}, &Error{
		Kind:    KindNotFound,
		VideoID: videoID,
		Err:     errors.Errorf("no %q track, available: %s", language, strings.Join(available, ", ")),
	}
}

func parseTimedText(body []byte) ([]Fragment, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing caption track")
	}

	fragments := make([]Fragment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := html.UnescapeString(t.Text)
		text = tagPattern.ReplaceAllString(text, "")
		fragments = append(fragments, Fragment{
			Text:     text,
			Start:    t.Start,
			Duration: t.Duration,
		})
	}
	return fragments, nil
}

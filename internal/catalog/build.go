package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// SourceURL is the dotaconstants items feed the catalog is generated from.
const SourceURL = "https://raw.githubusercontent.com/odota/dotaconstants/master/build/items.json"

const maxSourceBytes = 32 << 20

// Tables holds the generated name -> cost and name -> image slug maps.
type Tables struct {
	Costs map[string]int
	Slugs map[string]string
}

// Fetch downloads the items feed.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if strings.TrimSpace(url) == "" {
		url = SourceURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download items feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download items feed: http status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read items feed: %w", err)
	}
	return body, nil
}

// BuildTables extracts costs and slugs from the items feed. Entries need a display name;
// costs additionally need a numeric cost and slugs an image path.
func BuildTables(feed []byte) (Tables, error) {
	if !gjson.ValidBytes(feed) {
		return Tables{}, fmt.Errorf("items feed is not valid json")
	}
	root := gjson.ParseBytes(feed)
	if !root.IsObject() {
		return Tables{}, fmt.Errorf("items feed must be a json object")
	}
	tables := Tables{Costs: map[string]int{}, Slugs: map[string]string{}}
	root.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("dname").String()
		if name == "" {
			return true
		}
		if cost := item.Get("cost"); cost.Type == gjson.Number {
			tables.Costs[name] = int(math.Max(0, cost.Float()))
		}
		if slug := SlugFromImage(item.Get("img").String()); slug != "" {
			tables.Slugs[name] = slug
		}
		return true
	})
	return tables, nil
}

// SlugFromImage turns "/apps/dota2/images/items/blink_lg.png?t=1" into "blink".
func SlugFromImage(img string) string {
	img, _, _ = strings.Cut(img, "?")
	if img == "" {
		return ""
	}
	file := img[strings.LastIndex(img, "/")+1:]
	lower := strings.ToLower(file)
	switch {
	case strings.HasSuffix(lower, "_lg.png"):
		file = file[:len(file)-len("_lg.png")]
	case strings.HasSuffix(lower, ".png"):
		file = file[:len(file)-len(".png")]
	}
	return file
}

// Write stores item_costs.json and item_slugs.json under dir.
func (t Tables) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "item_costs.json"), t.Costs); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "item_slugs.json"), t.Slugs)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

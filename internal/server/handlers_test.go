package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/landcover-analytics/internal/catalog"
	"github.com/ironsheep/landcover-analytics/internal/raster"
	"github.com/ironsheep/landcover-analytics/internal/service"
)

// writeRaster writes rows as an 8-bit grayscale raster file.
func writeRaster(t *testing.T, path string, rows [][]uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, v := range row {
			img.Pix[img.PixOffset(x, y)] = v
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create raster: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode raster: %v", err)
	}
}

// newTestServer creates a server over a small two-year catalog.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	writeRaster(t, filepath.Join(dir, "lulc", "Test_LULC_2019.tif"), [][]uint8{{1, 1}, {2, 0}})
	writeRaster(t, filepath.Join(dir, "lulc", "Test_LULC_2024.tif"), [][]uint8{{2, 1}, {2, 0}})
	writeRaster(t, filepath.Join(dir, "change", "Test_LULC_Change_2019_2024.tif"), [][]uint8{{1, 0}, {0, 0}})
	writeRaster(t, filepath.Join(dir, "confidence", "conf_2024.tif"), [][]uint8{{95, 50}, {85, 0}})

	svc := service.New(service.Options{
		Catalog: catalog.New(catalog.Layout{
			DataDir:         dir,
			Region:          "Test",
			LULCYears:       []int{2019, 2024},
			ChangePairs:     []catalog.Pair{{Start: 2019, End: 2024}},
			ConfidenceFiles: map[int]string{2024: "conf_2024.tif"},
		}),
		Scale:  raster.ScalePercent,
		MaxDim: 256,
	})
	return New(svc, nil, "test")
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult decodes the text content of a successful tool response.
func toolResult(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("tool result is not a JSON object: %v", err)
	}
	return out
}

// errorKind returns the code and kind of a failed tool response.
func errorKind(t *testing.T, resp *MCPResponse) (int, service.Kind) {
	t.Helper()

	if resp.Error == nil {
		t.Fatalf("expected error, got result %v", resp.Result)
	}
	data, ok := resp.Error.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("error data should be a map, got %T", resp.Error.Data)
	}
	return resp.Error.Code, data["kind"].(service.Kind)
}

func TestAreaStats_Year(t *testing.T) {
	s := newTestServer(t)
	out := toolResult(t, callTool(t, s, "lulc_area_stats", map[string]interface{}{"year": 2019}))

	if out["year"] != float64(2019) {
		t.Errorf("year: got %v", out["year"])
	}
	if out["total_area_ha"] != 0.03 {
		t.Errorf("total_area_ha: got %v, want 0.03", out["total_area_ha"])
	}

	stats := out["stats"].([]interface{})
	forest := stats[0].(map[string]interface{})
	if forest["class_name"] != "Forest" || forest["percentage"] != 66.67 {
		t.Errorf("forest: got %v", forest)
	}
}

func TestAreaStats_Inline(t *testing.T) {
	s := newTestServer(t)
	out := toolResult(t, callTool(t, s, "lulc_area_stats", map[string]interface{}{
		"grid":       [][]int{{3, 3, 3, 3}},
		"pixel_size": 30,
	}))

	if out["total_area_ha"] != 0.36 {
		t.Errorf("total_area_ha: got %v, want 0.36", out["total_area_ha"])
	}
	if out["pixel_size_m"] != float64(30) {
		t.Errorf("pixel_size_m: got %v", out["pixel_size_m"])
	}
}

func TestAreaStats_BadArguments(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args interface{}
	}{
		{"no input", map[string]interface{}{}},
		{"both inputs", map[string]interface{}{"year": 2019, "grid": [][]int{{1}}}},
		{"fractional class", map[string]interface{}{"grid": [][]float64{{1.5}}}},
		{"negative class", map[string]interface{}{"grid": [][]int{{-1}}}},
		{"ragged", map[string]interface{}{"grid": [][]int{{1, 2}, {1}}}},
		{"wrong type", map[string]interface{}{"year": "2019"}},
		{"zero pixel size", map[string]interface{}{"year": 2019, "pixel_size": 0}},
		{"negative pixel size", map[string]interface{}{"grid": [][]int{{1}}, "pixel_size": -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, kind := errorKind(t, callTool(t, s, "lulc_area_stats", tt.args))
			if code != -32602 {
				t.Errorf("code: got %d, want -32602", code)
			}
			if kind != service.KindPrecondition {
				t.Errorf("kind: got %s, want precondition", kind)
			}
		})
	}
}

func TestAreaStats_UnknownClass(t *testing.T) {
	s := newTestServer(t)
	code, kind := errorKind(t, callTool(t, s, "lulc_area_stats", map[string]interface{}{"grid": [][]int{{1, 9}}}))

	if code != -32000 || kind != service.KindPrecondition {
		t.Errorf("got code %d kind %s, want -32000 precondition", code, kind)
	}
}

func TestAreaStats_YearNotAvailable(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "lulc_area_stats", map[string]interface{}{"year": 2030})

	code, kind := errorKind(t, resp)
	if code != -32000 || kind != service.KindNotAvailable {
		t.Errorf("got code %d kind %s, want -32000 not_available", code, kind)
	}
	msg := resp.Error.Data.(map[string]interface{})["error"].(string)
	if !strings.Contains(msg, "2019, 2024") {
		t.Errorf("error should list available years: %s", msg)
	}
}

func TestChangeStats(t *testing.T) {
	s := newTestServer(t)

	t.Run("pair", func(t *testing.T) {
		out := toolResult(t, callTool(t, s, "lulc_change_stats", map[string]interface{}{"start_year": 2019, "end_year": 2024}))
		row := out["matrix_percentage"].([]interface{})[0].([]interface{})
		if row[0] != float64(50) || row[1] != float64(50) {
			t.Errorf("forest row: got %v", row)
		}
	})

	t.Run("inline", func(t *testing.T) {
		out := toolResult(t, callTool(t, s, "lulc_change_stats", map[string]interface{}{
			"old_grid": [][]int{{1, 1}},
			"new_grid": [][]int{{2, 1}},
		}))
		breakdown := out["breakdown"].([]interface{})
		if len(breakdown) != 2 {
			t.Fatalf("breakdown: got %v", breakdown)
		}
		last := breakdown[1].(map[string]interface{})
		if last["from_class"] != "Forest" || last["to_class"] != "Water Bodies" || last["area_ha"] != 0.01 {
			t.Errorf("breakdown[1]: got %v", last)
		}
	})

	t.Run("half pair", func(t *testing.T) {
		code, _ := errorKind(t, callTool(t, s, "lulc_change_stats", map[string]interface{}{"start_year": 2019}))
		if code != -32602 {
			t.Errorf("code: got %d, want -32602", code)
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		code, kind := errorKind(t, callTool(t, s, "lulc_change_stats", map[string]interface{}{
			"old_grid": [][]int{{1, 1}},
			"new_grid": [][]int{{1}, {1}},
		}))
		if code != -32000 || kind != service.KindPrecondition {
			t.Errorf("got code %d kind %s", code, kind)
		}
	})
}

func TestConfidenceSummary(t *testing.T) {
	s := newTestServer(t)

	out := toolResult(t, callTool(t, s, "confidence_summary", map[string]interface{}{
		"confidence": [][]float64{{0, 0.5}, {0.9, 0.95}},
	}))
	if out["coverage_percent"] != float64(75) || out["median"] != float64(90) || out["scale"] != "unit" {
		t.Errorf("summary: got %v", out)
	}

	year := toolResult(t, callTool(t, s, "confidence_summary", map[string]interface{}{"year": 2024}))
	if year["year"] != float64(2024) || year["max"] != float64(95) {
		t.Errorf("year summary: got %v", year)
	}
}

func TestConfidenceSummary_NoData(t *testing.T) {
	s := newTestServer(t)
	code, kind := errorKind(t, callTool(t, s, "confidence_summary", map[string]interface{}{
		"confidence": [][]float64{{0, 0}},
	}))
	if code != -32000 || kind != service.KindNoData {
		t.Errorf("got code %d kind %s, want -32000 no_data", code, kind)
	}
}

func TestConfidenceSummary_BadScale(t *testing.T) {
	s := newTestServer(t)
	code, _ := errorKind(t, callTool(t, s, "confidence_summary", map[string]interface{}{
		"confidence": [][]float64{{50}},
		"scale":      "permille",
	}))
	if code != -32602 {
		t.Errorf("code: got %d, want -32602", code)
	}
}

func TestConfidenceByClass(t *testing.T) {
	s := newTestServer(t)
	out := toolResult(t, callTool(t, s, "confidence_by_class", map[string]interface{}{
		"grid":       [][]int{{1, 1, 2}},
		"confidence": [][]float64{{80, 90, 0}},
	}))

	classes := out["classes"].([]interface{})
	forest := classes[0].(map[string]interface{})
	water := classes[1].(map[string]interface{})
	if forest["mean_confidence"] != float64(85) {
		t.Errorf("forest: got %v", forest)
	}
	if water["mean_confidence"] != nil || water["pixel_count"] != float64(0) {
		t.Errorf("water: got %v", water)
	}
}

func TestConfidenceByChange_Pair(t *testing.T) {
	s := newTestServer(t)
	out := toolResult(t, callTool(t, s, "confidence_by_change", map[string]interface{}{"start_year": 2019, "end_year": 2024}))

	changed := out["changed"].(map[string]interface{})
	if changed["pixel_count"] != float64(1) || changed["mean_confidence"] != float64(95) {
		t.Errorf("changed: got %v", changed)
	}
}

func TestConfidenceBands(t *testing.T) {
	s := newTestServer(t)
	out := toolResult(t, callTool(t, s, "confidence_bands", map[string]interface{}{"year": 2024}))

	bands := out["bands"].([]interface{})
	if len(bands) != 3 {
		t.Fatalf("bands: got %v", bands)
	}
	for _, b := range bands {
		if b.(map[string]interface{})["pixel_count"] != float64(1) {
			t.Errorf("band: got %v", b)
		}
	}
}

func TestMapTools(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		tool  string
		args  map[string]interface{}
		wantW int
	}{
		{"lulc year", "map_lulc", map[string]interface{}{"year": 2024}, 2},
		{"lulc inline", "map_lulc", map[string]interface{}{"grid": [][]int{{1, 2, 3}}}, 3},
		{"change pair", "map_change", map[string]interface{}{"start_year": 2019, "end_year": 2024}, 2},
		{"confidence inline", "map_confidence", map[string]interface{}{"confidence": [][]float64{{0.5, 0.95}}}, 2},
		{"composite pair", "map_composite", map[string]interface{}{"start_year": 2019, "end_year": 2024}, 2},
		{"composite inline", "map_composite", map[string]interface{}{"grid": [][]int{{1, 2}}, "change": [][]int{{0, 1}}}, 2},
		{"downsampled", "map_lulc", map[string]interface{}{"grid": [][]int{{1, 2, 3, 4}}, "max_dim": 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := toolResult(t, callTool(t, s, tt.tool, tt.args))

			if out["mime_type"] != "image/png" {
				t.Errorf("mime_type: got %v", out["mime_type"])
			}
			if out["width"] != float64(tt.wantW) {
				t.Errorf("width: got %v, want %d", out["width"], tt.wantW)
			}

			data, err := base64.StdEncoding.DecodeString(out["image_base64"].(string))
			if err != nil {
				t.Fatalf("invalid base64: %v", err)
			}
			if _, err := png.Decode(strings.NewReader(string(data))); err != nil {
				t.Errorf("invalid PNG: %v", err)
			}
		})
	}
}

func TestMapComposite_ShapeMismatch(t *testing.T) {
	s := newTestServer(t)
	code, kind := errorKind(t, callTool(t, s, "map_composite", map[string]interface{}{
		"grid":   [][]int{{1, 2}},
		"change": [][]int{{1}},
	}))
	if code != -32000 || kind != service.KindPrecondition {
		t.Errorf("got code %d kind %s", code, kind)
	}
}

func TestMapLegendBoundsCatalog(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "map_legend", nil)
	if resp.Error != nil {
		t.Fatalf("map_legend failed: %+v", resp.Error)
	}
	text := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})[0]["text"].(string)
	var legend []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &legend); err != nil {
		t.Fatalf("legend is not a list: %v", err)
	}
	if len(legend) != 9 || legend[0]["hex"] != "#2d8645" {
		t.Errorf("legend: got %v", legend)
	}

	bounds := toolResult(t, callTool(t, s, "map_bounds", nil))
	if _, ok := bounds["bounds"]; !ok {
		t.Errorf("map_bounds: got %v", bounds)
	}

	listing := toolResult(t, callTool(t, s, "catalog_list", map[string]interface{}{}))
	years := listing["lulc_years"].([]interface{})
	if len(years) != 2 || years[0] != float64(2019) {
		t.Errorf("lulc_years: got %v", years)
	}
}

func TestUnknownTool(t *testing.T) {
	s := newTestServer(t)
	code, _ := errorKind(t, callTool(t, s, "image_crop", map[string]interface{}{}))
	if code != -32602 {
		t.Errorf("code: got %d, want -32602", code)
	}
}

func TestToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`[1,2,3]`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

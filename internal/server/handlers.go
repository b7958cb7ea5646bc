package server

import (
	"context"
	"encoding/json"
	"image"

	"github.com/ironsheep/landcover-analytics/internal/logging"
	"github.com/ironsheep/landcover-analytics/internal/raster"
	"github.com/ironsheep/landcover-analytics/internal/service"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "lulc_area_stats", "map_lulc").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Rejected arguments return code -32602 and failed executions -32000. In
// both cases data carries {"kind": ..., "error": ...}.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", toolErrorData(service.KindPrecondition, err))
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Debug(component, "tool call failed", logging.Fields{"tool": params.Name, "error": err.Error()})
		if isParamError(err) {
			return errorResponse(req.ID, codeInvalidParams, "Invalid params", toolErrorData(service.KindPrecondition, err))
		}
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", toolErrorData(service.KindOf(err), err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func toolErrorData(kind service.Kind, err error) map[string]interface{} {
	return map[string]interface{}{
		"kind":  kind,
		"error": err.Error(),
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Checks that exactly one input form (catalog or inline) was given
//  3. Loads catalog rasters or converts inline grids
//  4. Calls the service
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Statistics
	case "lulc_area_stats":
		return s.handleAreaStats(ctx, args)
	case "lulc_change_stats":
		return s.handleChangeStats(ctx, args)

	// Confidence
	case "confidence_summary":
		return s.handleConfidenceSummary(ctx, args)
	case "confidence_by_class":
		return s.handleConfidenceByClass(ctx, args)
	case "confidence_by_change":
		return s.handleConfidenceByChange(ctx, args)
	case "confidence_bands":
		return s.handleConfidenceBands(ctx, args)

	// Maps
	case "map_lulc":
		return s.handleMapLULC(ctx, args)
	case "map_change":
		return s.handleMapChange(ctx, args)
	case "map_confidence":
		return s.handleMapConfidence(ctx, args)
	case "map_composite":
		return s.handleMapComposite(ctx, args)
	case "map_legend":
		return s.svc.Legend(), nil
	case "map_bounds":
		return map[string]interface{}{"bounds": s.svc.Bounds()}, nil

	// Catalog
	case "catalog_list":
		return s.svc.Catalog(), nil

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: err}
	}
	return nil
}

// === Statistics Handlers ===

type areaStatsArgs struct {
	Year      *int        `json:"year"`
	Grid      [][]float64 `json:"grid"`
	PixelSize *float64    `json:"pixel_size"`
}

func (s *Server) handleAreaStats(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a areaStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Grid != nil, "year", "grid"); err != nil {
		return nil, err
	}
	if err := pixelSizeArg(a.PixelSize); err != nil {
		return nil, err
	}
	if a.Year != nil {
		return s.svc.LULCStats(ctx, *a.Year, a.PixelSize)
	}
	g, err := classGridArg("grid", a.Grid)
	if err != nil {
		return nil, err
	}
	return s.svc.AreaStats(ctx, g, a.PixelSize)
}

type changeStatsArgs struct {
	StartYear *int        `json:"start_year"`
	EndYear   *int        `json:"end_year"`
	OldGrid   [][]float64 `json:"old_grid"`
	NewGrid   [][]float64 `json:"new_grid"`
	PixelSize *float64    `json:"pixel_size"`
}

func (s *Server) handleChangeStats(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a changeStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	byPair, err := pairGiven(a.StartYear, a.EndYear)
	if err != nil {
		return nil, err
	}
	if err := source(byPair, a.OldGrid != nil || a.NewGrid != nil, "start_year/end_year", "old_grid/new_grid"); err != nil {
		return nil, err
	}
	if err := pixelSizeArg(a.PixelSize); err != nil {
		return nil, err
	}
	if byPair {
		return s.svc.ChangeStats(ctx, *a.StartYear, *a.EndYear, a.PixelSize)
	}

	older, err := classGridArg("old_grid", a.OldGrid)
	if err != nil {
		return nil, err
	}
	newer, err := classGridArg("new_grid", a.NewGrid)
	if err != nil {
		return nil, err
	}
	return s.svc.Transitions(ctx, older, newer, a.PixelSize)
}

// === Confidence Handlers ===

type confidenceArgs struct {
	Year       *int        `json:"year"`
	Confidence [][]float64 `json:"confidence"`
	Scale      string      `json:"scale"`
}

func (s *Server) handleConfidenceSummary(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a confidenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Confidence != nil, "year", "confidence"); err != nil {
		return nil, err
	}
	if a.Year != nil {
		return s.svc.YearConfidenceSummary(ctx, *a.Year)
	}
	conf, err := confidenceArg(a.Confidence, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.svc.ConfidenceSummary(ctx, conf)
}

type confidenceByClassArgs struct {
	Year       *int        `json:"year"`
	Grid       [][]float64 `json:"grid"`
	Confidence [][]float64 `json:"confidence"`
	Scale      string      `json:"scale"`
}

func (s *Server) handleConfidenceByClass(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a confidenceByClassArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Grid != nil || a.Confidence != nil, "year", "grid/confidence"); err != nil {
		return nil, err
	}
	if a.Year != nil {
		return s.svc.YearConfidenceByClass(ctx, *a.Year)
	}

	classes, err := classGridArg("grid", a.Grid)
	if err != nil {
		return nil, err
	}
	conf, err := confidenceArg(a.Confidence, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.svc.ConfidenceByClass(ctx, classes, conf)
}

type confidenceByChangeArgs struct {
	StartYear  *int        `json:"start_year"`
	EndYear    *int        `json:"end_year"`
	Change     [][]float64 `json:"change"`
	Confidence [][]float64 `json:"confidence"`
	Scale      string      `json:"scale"`
}

func (s *Server) handleConfidenceByChange(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a confidenceByChangeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	byPair, err := pairGiven(a.StartYear, a.EndYear)
	if err != nil {
		return nil, err
	}
	if err := source(byPair, a.Change != nil || a.Confidence != nil, "start_year/end_year", "change/confidence"); err != nil {
		return nil, err
	}
	if byPair {
		return s.svc.ChangeConfidenceStats(ctx, *a.StartYear, *a.EndYear)
	}

	change, err := classGridArg("change", a.Change)
	if err != nil {
		return nil, err
	}
	conf, err := confidenceArg(a.Confidence, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.svc.ConfidenceByChange(ctx, change, conf)
}

func (s *Server) handleConfidenceBands(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a confidenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Confidence != nil, "year", "confidence"); err != nil {
		return nil, err
	}
	if a.Year != nil {
		return s.svc.YearConfidenceBands(ctx, *a.Year)
	}
	conf, err := confidenceArg(a.Confidence, a.Scale)
	if err != nil {
		return nil, err
	}
	return s.svc.ConfidenceBands(ctx, conf)
}

// === Map Handlers ===

type mapLULCArgs struct {
	Year   *int        `json:"year"`
	Grid   [][]float64 `json:"grid"`
	MaxDim int         `json:"max_dim"`
}

func (s *Server) handleMapLULC(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapLULCArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Grid != nil, "year", "grid"); err != nil {
		return nil, err
	}

	var img image.Image
	if a.Year != nil {
		m, err := s.svc.LULCMap(ctx, *a.Year)
		if err != nil {
			return nil, err
		}
		img = m
	} else {
		g, err := classGridArg("grid", a.Grid)
		if err != nil {
			return nil, err
		}
		m, err := s.svc.ClassMap(ctx, g)
		if err != nil {
			return nil, err
		}
		img = m
	}
	return s.preview(img, a.MaxDim)
}

type mapChangeArgs struct {
	StartYear *int        `json:"start_year"`
	EndYear   *int        `json:"end_year"`
	Change    [][]float64 `json:"change"`
	MaxDim    int         `json:"max_dim"`
}

func (s *Server) handleMapChange(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapChangeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	byPair, err := pairGiven(a.StartYear, a.EndYear)
	if err != nil {
		return nil, err
	}
	if err := source(byPair, a.Change != nil, "start_year/end_year", "change"); err != nil {
		return nil, err
	}

	var img image.Image
	if byPair {
		m, err := s.svc.YearChangeMap(ctx, *a.StartYear, *a.EndYear)
		if err != nil {
			return nil, err
		}
		img = m
	} else {
		g, err := classGridArg("change", a.Change)
		if err != nil {
			return nil, err
		}
		m, err := s.svc.ChangeMap(ctx, g)
		if err != nil {
			return nil, err
		}
		img = m
	}
	return s.preview(img, a.MaxDim)
}

type mapConfidenceArgs struct {
	Year       *int        `json:"year"`
	Confidence [][]float64 `json:"confidence"`
	Scale      string      `json:"scale"`
	MaxDim     int         `json:"max_dim"`
}

func (s *Server) handleMapConfidence(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapConfidenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := source(a.Year != nil, a.Confidence != nil, "year", "confidence"); err != nil {
		return nil, err
	}

	var img image.Image
	if a.Year != nil {
		m, err := s.svc.YearConfidenceMap(ctx, *a.Year)
		if err != nil {
			return nil, err
		}
		img = m
	} else {
		conf, err := confidenceArg(a.Confidence, a.Scale)
		if err != nil {
			return nil, err
		}
		m, err := s.svc.ConfidenceMap(ctx, conf)
		if err != nil {
			return nil, err
		}
		img = m
	}
	return s.preview(img, a.MaxDim)
}

type mapCompositeArgs struct {
	StartYear *int        `json:"start_year"`
	EndYear   *int        `json:"end_year"`
	Grid      [][]float64 `json:"grid"`
	Change    [][]float64 `json:"change"`
	MaxDim    int         `json:"max_dim"`
}

func (s *Server) handleMapComposite(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapCompositeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	byPair, err := pairGiven(a.StartYear, a.EndYear)
	if err != nil {
		return nil, err
	}
	if err := source(byPair, a.Grid != nil || a.Change != nil, "start_year/end_year", "grid/change"); err != nil {
		return nil, err
	}

	var img image.Image
	if byPair {
		m, err := s.svc.YearCompositeMap(ctx, *a.StartYear, *a.EndYear)
		if err != nil {
			return nil, err
		}
		img = m
	} else {
		var classes, change *raster.Grid[uint16]
		if classes, err = classGridArg("grid", a.Grid); err != nil {
			return nil, err
		}
		if change, err = classGridArg("change", a.Change); err != nil {
			return nil, err
		}
		m, err := s.svc.CompositeMap(ctx, classes, change)
		if err != nil {
			return nil, err
		}
		img = m
	}
	return s.preview(img, a.MaxDim)
}

func (s *Server) preview(img image.Image, maxDim int) (interface{}, error) {
	p, err := s.svc.Preview(img, maxDim)
	if err != nil {
		if service.KindOf(err) == service.KindPrecondition {
			return nil, &paramError{err: err}
		}
		return nil, err
	}
	return p, nil
}

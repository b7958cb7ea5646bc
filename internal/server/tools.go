package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func gridProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "number"},
		},
	}
}

var (
	yearProp      = integerProp("Survey year of a catalog raster (see catalog_list)")
	startYearProp = integerProp("Start year of a catalog change pair")
	endYearProp   = integerProp("End year of a catalog change pair")

	pixelSizeProp = map[string]interface{}{
		"type":        "number",
		"description": "Pixel edge length in meters. Defaults to the configured size (10)",
	}
	scaleProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"auto", "unit", "percent"},
		"description": "Value domain of inline confidence values. Default auto (max <= 1.05 means unit)",
	}
	maxDimProp = integerProp("Optional maximum width/height of the preview; larger maps are downsampled")

	classGridProp      = gridProp("Inline class grid, rows of class ids (0 = no data)")
	changeGridProp     = gridProp("Inline change grid, rows of values (0 = unchanged)")
	confidenceGridProp = gridProp("Inline confidence grid, rows of values (<= 0 = no data)")
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Statistics
		{
			Name:        "lulc_area_stats",
			Description: "Per-class pixel counts, area in hectares and percentage of valid area for one land-cover grid. Give either a catalog year or an inline grid.",
			InputSchema: objectSchema(map[string]interface{}{
				"year":       yearProp,
				"grid":       classGridProp,
				"pixel_size": pixelSizeProp,
			}),
		},
		{
			Name:        "lulc_change_stats",
			Description: "Class transition matrix (area and row percentages) and non-zero transition breakdown between two land-cover grids of the same shape.",
			InputSchema: objectSchema(map[string]interface{}{
				"start_year": startYearProp,
				"end_year":   endYearProp,
				"old_grid":   gridProp("Inline class grid of the earlier date"),
				"new_grid":   gridProp("Inline class grid of the later date"),
				"pixel_size": pixelSizeProp,
			}),
		},

		// Confidence
		{
			Name:        "confidence_summary",
			Description: "Min, max, mean and median classification confidence (percent) and coverage of valid pixels.",
			InputSchema: objectSchema(map[string]interface{}{
				"year":       yearProp,
				"confidence": confidenceGridProp,
				"scale":      scaleProp,
			}),
		},
		{
			Name:        "confidence_by_class",
			Description: "Mean confidence and pixel count per land-cover class. Classes without pixels report a null mean.",
			InputSchema: objectSchema(map[string]interface{}{
				"year":       yearProp,
				"grid":       classGridProp,
				"confidence": confidenceGridProp,
				"scale":      scaleProp,
			}),
		},
		{
			Name:        "confidence_by_change",
			Description: "Mean confidence of changed versus unchanged pixels. Catalog pairs use the end year's confidence raster.",
			InputSchema: objectSchema(map[string]interface{}{
				"start_year": startYearProp,
				"end_year":   endYearProp,
				"change":     changeGridProp,
				"confidence": confidenceGridProp,
				"scale":      scaleProp,
			}),
		},
		{
			Name:        "confidence_bands",
			Description: "Pixel counts and shares of the low (<80%), medium (80-90%) and high (>=90%) confidence bands.",
			InputSchema: objectSchema(map[string]interface{}{
				"year":       yearProp,
				"confidence": confidenceGridProp,
				"scale":      scaleProp,
			}),
		},

		// Maps
		{
			Name:        "map_lulc",
			Description: "Render a land-cover grid as a base64-encoded PNG in the class palette. No-data pixels are transparent.",
			InputSchema: objectSchema(map[string]interface{}{
				"year":    yearProp,
				"grid":    classGridProp,
				"max_dim": maxDimProp,
			}),
		},
		{
			Name:        "map_change",
			Description: "Render changed pixels as a translucent red overlay (base64 PNG).",
			InputSchema: objectSchema(map[string]interface{}{
				"start_year": startYearProp,
				"end_year":   endYearProp,
				"change":     changeGridProp,
				"max_dim":    maxDimProp,
			}),
		},
		{
			Name:        "map_confidence",
			Description: "Render confidence bands as a translucent red/amber/green overlay (base64 PNG).",
			InputSchema: objectSchema(map[string]interface{}{
				"year":       yearProp,
				"confidence": confidenceGridProp,
				"scale":      scaleProp,
				"max_dim":    maxDimProp,
			}),
		},
		{
			Name:        "map_composite",
			Description: "Render the change overlay on top of the land-cover map. Catalog pairs use the end year's land cover.",
			InputSchema: objectSchema(map[string]interface{}{
				"start_year": startYearProp,
				"end_year":   endYearProp,
				"grid":       classGridProp,
				"change":     changeGridProp,
				"max_dim":    maxDimProp,
			}),
		},
		{
			Name:        "map_legend",
			Description: "Legend entries (label, hex, RGBA, HSL) for classes, change and confidence bands.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "map_bounds",
			Description: "Study-area bounds as [[south, west], [north, east]] in degrees.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Catalog
		{
			Name:        "catalog_list",
			Description: "List the land-cover years, change pairs and confidence years available in the catalog.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

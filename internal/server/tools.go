package server

import (
	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/translate"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func enum(description string, values []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values, "description": description}
}

func point(verb string) map[string]interface{} {
	return object(map[string]interface{}{
		"x": prop("number", "X coordinate in image pixels "+verb),
		"y": prop("number", "Y coordinate in image pixels "+verb),
	}, "x", "y")
}

func waitProp() map[string]interface{} {
	return prop("boolean", "Block until the started recognition or translation has finished. Default false")
}

func languageCodes() []string {
	codes := make([]string, len(ocr.Languages))
	for i, l := range ocr.Languages {
		codes[i] = string(l)
	}
	return codes
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Page
		{
			Name:        "overlay_load_image",
			Description: "Load a manga page from disk. Discards every box on the current page; the current style is kept.",
			InputSchema: object(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file (png, jpeg, gif, bmp, tiff, webp)"),
			}, "path"),
		},
		{
			Name:        "overlay_state",
			Description: "Return the session state: page info, boxes, active box, current style, OCR language, provider, credential status and the latest status.",
			InputSchema: object(map[string]interface{}{}),
		},
		{
			Name:        "overlay_render",
			Description: "Render the editing view as PNG: page, boxes, highlight on the active box and the selection being drawn.",
			InputSchema: object(map[string]interface{}{
				"grid": prop("integer", "Optional coordinate grid spacing in pixels; lines and x,y labels are drawn over the frame"),
			}),
		},
		{
			Name:        "overlay_export",
			Description: "Render the finished page without editing decorations. Writes it to path when given (format from the extension) and returns it as PNG.",
			InputSchema: object(map[string]interface{}{
				"path": prop("string", "Optional output file"),
			}),
		},
		{
			Name:        "overlay_sample_color",
			Description: "Get the page colour at a pixel, ignoring overlays. Useful for matching text or patch colours.",
			InputSchema: object(map[string]interface{}{
				"x": prop("integer", "X coordinate (0-based, from left)"),
				"y": prop("integer", "Y coordinate (0-based, from top)"),
			}, "x", "y"),
		},
		{
			Name:        "overlay_crop_box",
			Description: "Return the page pixels under a box as PNG.",
			InputSchema: object(map[string]interface{}{
				"id": prop("string", "Box id"),
			}, "id"),
		},
		{
			Name:        "overlay_detect_text_regions",
			Description: "Suggest areas of the page that look like lettering, best first. Nothing is created; draw boxes over the regions you want with overlay_draw_box.",
			InputSchema: object(map[string]interface{}{
				"min_confidence": prop("number", "Minimum confidence 0-1 (default: 0.5)"),
			}),
		},

		// Pointer
		{
			Name:        "overlay_pointer_down",
			Description: "Press the pointer. Over a box this selects it and starts dragging; elsewhere it clears the selection and starts drawing a region.",
			InputSchema: point("where the pointer is pressed"),
		},
		{
			Name:        "overlay_pointer_move",
			Description: "Move the pointer, dragging the active box or resizing the region being drawn.",
			InputSchema: point("of the pointer"),
		},
		{
			Name:        "overlay_pointer_up",
			Description: "Release the pointer. A drawn region of at least 10x10 pixels becomes a new selected box and text recognition starts on it.",
			InputSchema: object(map[string]interface{}{
				"x":    prop("number", "X coordinate in image pixels where the pointer is released"),
				"y":    prop("number", "Y coordinate in image pixels where the pointer is released"),
				"wait": waitProp(),
			}, "x", "y"),
		},
		{
			Name:        "overlay_draw_box",
			Description: "Create a box over a rectangle in one step, as a press, drag and release would. Recognition starts on the new box.",
			InputSchema: object(map[string]interface{}{
				"x":    prop("number", "Left edge in image pixels"),
				"y":    prop("number", "Top edge in image pixels"),
				"w":    prop("number", "Width in image pixels"),
				"h":    prop("number", "Height in image pixels"),
				"wait": waitProp(),
			}, "x", "y", "w", "h"),
		},
		{
			Name:        "overlay_hover",
			Description: "Return the cursor for a position: move over a box, crosshair while drawing, default otherwise.",
			InputSchema: point("of the pointer"),
		},

		// Boxes and style
		{
			Name:        "overlay_select_box",
			Description: "Select a box by id and adopt its style as the current style. An empty id clears the selection.",
			InputSchema: object(map[string]interface{}{
				"id": prop("string", "Box id"),
			}),
		},
		{
			Name:        "overlay_set_style",
			Description: "Change one field of the current style. The change is mirrored into the selected box.",
			InputSchema: object(map[string]interface{}{
				"field": enum("Style field", box.Fields),
				"value": prop("string", "New value: family name, positive size, #rrggbb colour, stroke width >= 0, or rotation in degrees"),
			}, "field", "value"),
		},
		{
			Name:        "overlay_toggle_bold",
			Description: "Toggle bold in the current style and the selected box.",
			InputSchema: object(map[string]interface{}{}),
		},
		{
			Name:        "overlay_toggle_italic",
			Description: "Toggle italic in the current style and the selected box.",
			InputSchema: object(map[string]interface{}{}),
		},
		{
			Name:        "overlay_set_align",
			Description: "Set text alignment in the current style and the selected box.",
			InputSchema: object(map[string]interface{}{
				"align": enum("Alignment", []string{string(box.AlignLeft), string(box.AlignCenter), string(box.AlignRight)}),
			}, "align"),
		},
		{
			Name:        "overlay_set_text",
			Description: "Replace the original and/or translated text of the selected box. Omitted fields are left alone.",
			InputSchema: object(map[string]interface{}{
				"original":   prop("string", "Source-language text"),
				"translated": prop("string", "Text drawn on the page"),
			}),
		},
		{
			Name:        "overlay_set_patch",
			Description: "Turn the white background patch of the selected box on or off.",
			InputSchema: object(map[string]interface{}{
				"patch": prop("boolean", "Fill the box white under the text"),
			}, "patch"),
		},
		{
			Name:        "overlay_delete_box",
			Description: "Delete a box by id, or the selected box when no id is given.",
			InputSchema: object(map[string]interface{}{
				"id": prop("string", "Optional box id"),
			}),
		},
		{
			Name:        "overlay_clear",
			Description: "Remove every box. With unload the page is unloaded as well.",
			InputSchema: object(map[string]interface{}{
				"unload": prop("boolean", "Also unload the page. Default false"),
			}),
		},

		// OCR
		{
			Name:        "overlay_ocr",
			Description: "Recognize the text under a box (the selected box when no id is given) and store it as the original text.",
			InputSchema: object(map[string]interface{}{
				"id":   prop("string", "Optional box id"),
				"wait": waitProp(),
			}),
		},
		{
			Name:        "overlay_set_ocr_language",
			Description: "Switch the recognition language. The engine is rebuilt after any running recognition finishes.",
			InputSchema: object(map[string]interface{}{
				"language": enum("Tesseract language code", languageCodes()),
			}, "language"),
		},

		// Translation
		{
			Name:        "overlay_translate",
			Description: "Translate the original text of the selected box with the selected paid provider.",
			InputSchema: object(map[string]interface{}{
				"wait": waitProp(),
			}),
		},
		{
			Name:        "overlay_translate_free",
			Description: "Translate with a free service. With a box selected its original text is translated into it; otherwise text is translated and returned in the status.",
			InputSchema: object(map[string]interface{}{
				"text":    prop("string", "Text to translate when no box is selected"),
				"service": enum("Free service to use from now on", translate.FreeServiceKeys),
				"wait":    waitProp(),
			}),
		},
		{
			Name:        "overlay_set_provider",
			Description: "Select the paid translation provider and model. Without a model the provider's first model is used.",
			InputSchema: object(map[string]interface{}{
				"provider": enum("Provider", translate.ProviderKeys),
				"model":    prop("string", "Model id"),
			}, "provider"),
		},
		{
			Name:        "overlay_list_models",
			Description: "List the models of a provider (the selected one by default).",
			InputSchema: object(map[string]interface{}{
				"provider": enum("Provider", translate.ProviderKeys),
			}),
		},
		{
			Name:        "overlay_save_credential",
			Description: "Set the API key for the selected provider. With persist the key and provider are saved for later sessions; an empty key then removes the saved key.",
			InputSchema: object(map[string]interface{}{
				"api_key": prop("string", "API key"),
				"persist": prop("boolean", "Save to the settings file. Default true"),
			}, "api_key"),
		},
		{
			Name:        "overlay_set_auto_translate",
			Description: "Translate new boxes automatically after recognition. The choice is saved.",
			InputSchema: object(map[string]interface{}{
				"enabled": prop("boolean", "Auto-translate on or off"),
			}, "enabled"),
		},

		// Jobs
		{
			Name:        "overlay_status",
			Description: "Return the latest status line, remediation hint, free translation result and fallback link.",
			InputSchema: object(map[string]interface{}{}),
		},
		{
			Name:        "overlay_wait",
			Description: "Block until every running recognition and translation has finished, then return the status.",
			InputSchema: object(map[string]interface{}{}),
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

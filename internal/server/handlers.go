package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/detection"
	"github.com/ironsheep/manga-overlay-mcp/internal/editor"
	"github.com/ironsheep/manga-overlay-mcp/internal/imaging"
	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "overlay_load_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks arguments the tool cannot accept. It is reported with
// the JSON-RPC invalid params code instead of as a tool failure.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidf(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// imageResult is returned by tools that produce a picture. It becomes an
// image content block followed by meta as text.
type imageResult struct {
	image *imaging.EncodedImage
	meta  interface{}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Image results put an {"type": "image"} block first. Bad arguments return
// -32602; tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		s.log.Info("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{}
	if img, ok := result.(*imageResult); ok {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     img.image.ImageBase64,
			"mimeType": img.image.MimeType,
		})
		result = img.meta
	}
	content = append(content, map[string]interface{}{
		"type": "text",
		"text": mustMarshalJSON(result),
	})

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Page
	case "overlay_load_image":
		return s.handleLoadImage(args)
	case "overlay_state":
		return s.editor.State(), nil
	case "overlay_render":
		return s.handleRender(args)
	case "overlay_export":
		return s.handleExport(args)
	case "overlay_sample_color":
		return s.handleSampleColor(args)
	case "overlay_crop_box":
		return s.handleCropBox(args)
	case "overlay_detect_text_regions":
		return s.handleDetectTextRegions(args)

	// Pointer
	case "overlay_pointer_down":
		return s.handlePointer(args, s.editor.PointerDown)
	case "overlay_pointer_move":
		return s.handlePointer(args, s.editor.PointerMove)
	case "overlay_pointer_up":
		return s.handlePointerUp(args)
	case "overlay_draw_box":
		return s.handleDrawBox(args)
	case "overlay_hover":
		return s.handleHover(args)

	// Boxes and style
	case "overlay_select_box":
		return s.handleSelectBox(args)
	case "overlay_set_style":
		return s.handleSetStyle(args)
	case "overlay_toggle_bold":
		return s.editor.ToggleBold(), nil
	case "overlay_toggle_italic":
		return s.editor.ToggleItalic(), nil
	case "overlay_set_align":
		return s.handleSetAlign(args)
	case "overlay_set_text":
		return s.handleSetText(args)
	case "overlay_set_patch":
		return s.handleSetPatch(args)
	case "overlay_delete_box":
		return s.handleDeleteBox(args)
	case "overlay_clear":
		return s.handleClear(args)

	// OCR
	case "overlay_ocr":
		return s.handleOCR(args)
	case "overlay_set_ocr_language":
		return s.handleSetOCRLanguage(args)

	// Translation
	case "overlay_translate":
		return s.handleTranslate(args)
	case "overlay_translate_free":
		return s.handleTranslateFree(args)
	case "overlay_set_provider":
		return s.handleSetProvider(args)
	case "overlay_list_models":
		return s.handleListModels(args)
	case "overlay_save_credential":
		return s.handleSaveCredential(args)
	case "overlay_set_auto_translate":
		return s.handleSetAutoTranslate(args)

	// Jobs
	case "overlay_status":
		return s.editor.Status(), nil
	case "overlay_wait":
		if err := s.waitJobs(); err != nil {
			return nil, fmt.Errorf("waiting for jobs: %w", err)
		}
		return s.editor.Status(), nil

	default:
		return nil, invalidf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &paramError{err: fmt.Errorf("invalid arguments: %w", err)}
	}
	return nil
}

func encodeImage(img image.Image, meta interface{}) (*imageResult, error) {
	enc, err := imaging.Encode(img)
	if err != nil {
		return nil, err
	}
	return &imageResult{image: enc, meta: meta}, nil
}

// jobResult describes a recognition or translation started by a tool.
type jobResult struct {
	BoxID  string        `json:"box_id,omitempty"`
	Done   bool          `json:"done"`
	Box    *box.Box      `json:"box,omitempty"`
	Status editor.Status `json:"status"`
}

// finishJob reports on a started job, waiting for it first when wait is set.
func (s *Server) finishJob(id string, wait bool) (*jobResult, error) {
	r := &jobResult{BoxID: id}
	if wait {
		if err := s.waitJobs(); err != nil {
			return nil, fmt.Errorf("waiting for job: %w", err)
		}
		r.Done = true
		if id != "" {
			if b, err := s.editor.Box(id); err == nil {
				r.Box = &b
			}
		}
	}
	r.Status = s.editor.Status()
	return r, nil
}

// === Page Handlers ===

type loadImageArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Path) == "" {
		return nil, invalidf("path is required")
	}
	return s.editor.LoadImage(a.Path)
}

type frameMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Path   string `json:"path,omitempty"`
}

type renderArgs struct {
	Grid int `json:"grid"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Grid < 0 {
		return nil, invalidf("grid must not be negative")
	}
	img := render.DrawGrid(s.editor.Frame(), a.Grid)
	b := img.Bounds()
	return encodeImage(img, frameMeta{Width: b.Dx(), Height: b.Dy()})
}

type exportArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.editor.Export(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return encodeImage(img, frameMeta{Width: b.Dx(), Height: b.Dy(), Path: a.Path})
}

type sampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.editor.SampleColor(a.X, a.Y)
}

type boxIDArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleCropBox(args json.RawMessage) (interface{}, error) {
	var a boxIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, invalidf("id is required")
	}
	img, err := s.editor.CropBox(a.ID)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return encodeImage(img, frameMeta{Width: b.Dx(), Height: b.Dy()})
}

type detectArgs struct {
	MinConfidence *float64 `json:"min_confidence"`
}

func (s *Server) handleDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	minConfidence := detection.DefaultMinConfidence
	if a.MinConfidence != nil {
		minConfidence = *a.MinConfidence
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, invalidf("min_confidence must be between 0 and 1")
	}

	regions, err := s.editor.DetectTextRegions(minConfidence)
	if err != nil {
		return nil, err
	}
	if regions == nil {
		regions = []detection.Region{}
	}
	return map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	}, nil
}

// === Pointer Handlers ===

type pointArgs struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Wait bool     `json:"wait"`
}

func (a pointArgs) validate() error {
	if a.X == nil || a.Y == nil {
		return invalidf("x and y are required")
	}
	return nil
}

func (s *Server) handlePointer(args json.RawMessage, fn func(x, y float64) (editor.PointerResult, error)) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return fn(*a.X, *a.Y)
}

type pointerUpResult struct {
	editor.PointerResult
	Job *jobResult `json:"job,omitempty"`
}

func (s *Server) withJob(res editor.PointerResult, wait bool) (interface{}, error) {
	out := pointerUpResult{PointerResult: res}
	if res.Created != "" {
		job, err := s.finishJob(res.Created, wait)
		if err != nil {
			return nil, err
		}
		out.Job = job
	}
	return out, nil
}

func (s *Server) handlePointerUp(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	res, err := s.editor.PointerUp(*a.X, *a.Y)
	if err != nil {
		return nil, err
	}
	return s.withJob(res, a.Wait)
}

type drawBoxArgs struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Wait bool    `json:"wait"`
}

func (s *Server) handleDrawBox(args json.RawMessage) (interface{}, error) {
	var a drawBoxArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.editor.DrawBox(box.Rect{X: a.X, Y: a.Y, W: a.W, H: a.H})
	if err != nil {
		return nil, err
	}
	return s.withJob(res, a.Wait)
}

func (s *Server) handleHover(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return map[string]string{"cursor": s.editor.Hover(*a.X, *a.Y)}, nil
}

// === Box and Style Handlers ===

type selectionResult struct {
	ActiveID string    `json:"active_id,omitempty"`
	Style    box.Style `json:"style"`
}

func (s *Server) handleSelectBox(args json.RawMessage) (interface{}, error) {
	var a boxIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.editor.SelectBox(a.ID); err != nil {
		return nil, err
	}
	st := s.editor.State()
	return selectionResult{ActiveID: st.ActiveID, Style: st.Style}, nil
}

type setStyleArgs struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleSetStyle(args json.RawMessage) (interface{}, error) {
	var a setStyleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	style, err := s.editor.SetStyle(a.Field, a.Value)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return style, nil
}

type setAlignArgs struct {
	Align string `json:"align"`
}

func (s *Server) handleSetAlign(args json.RawMessage) (interface{}, error) {
	var a setAlignArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	align, err := box.ParseAlign(a.Align)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return s.editor.SetAlign(align), nil
}

type setTextArgs struct {
	Original   *string `json:"original"`
	Translated *string `json:"translated"`
}

func (s *Server) handleSetText(args json.RawMessage) (interface{}, error) {
	var a setTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.editor.SetText(a.Original, a.Translated)
}

type setPatchArgs struct {
	Patch *bool `json:"patch"`
}

func (s *Server) handleSetPatch(args json.RawMessage) (interface{}, error) {
	var a setPatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Patch == nil {
		return nil, invalidf("patch is required")
	}
	return s.editor.SetPatch(*a.Patch)
}

func (s *Server) handleDeleteBox(args json.RawMessage) (interface{}, error) {
	var a boxIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.editor.Delete(a.ID); err != nil {
		return nil, err
	}
	return map[string]int{"boxes": len(s.editor.State().Boxes)}, nil
}

type clearArgs struct {
	Unload bool `json:"unload"`
}

func (s *Server) handleClear(args json.RawMessage) (interface{}, error) {
	var a clearArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.editor.Clear(a.Unload)
	return s.editor.State(), nil
}

// === OCR Handlers ===

type ocrArgs struct {
	ID   string `json:"id"`
	Wait bool   `json:"wait"`
}

func (s *Server) handleOCR(args json.RawMessage) (interface{}, error) {
	var a ocrArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := a.ID
	if id == "" {
		id = s.editor.State().ActiveID
	}
	if err := s.editor.Recognize(a.ID); err != nil {
		return nil, err
	}
	return s.finishJob(id, a.Wait)
}

type ocrLanguageArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleSetOCRLanguage(args json.RawMessage) (interface{}, error) {
	var a ocrLanguageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	lang, err := ocr.ParseLanguage(a.Language)
	if err != nil {
		return nil, &paramError{err: err}
	}
	if err := s.editor.SetOCRLanguage(lang); err != nil {
		return nil, err
	}
	return s.editor.Status(), nil
}

// === Translation Handlers ===

type translateArgs struct {
	Wait bool `json:"wait"`
}

func (s *Server) handleTranslate(args json.RawMessage) (interface{}, error) {
	var a translateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := s.editor.State().ActiveID
	if err := s.editor.Translate(); err != nil {
		return nil, err
	}
	return s.finishJob(id, a.Wait)
}

type translateFreeArgs struct {
	Text    string `json:"text"`
	Service string `json:"service"`
	Wait    bool   `json:"wait"`
}

func (s *Server) handleTranslateFree(args json.RawMessage) (interface{}, error) {
	var a translateFreeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Service != "" {
		if err := s.editor.SetFreeService(a.Service); err != nil {
			return nil, &paramError{err: err}
		}
	}
	id := s.editor.State().ActiveID
	if err := s.editor.TranslateFree(a.Text); err != nil {
		return nil, err
	}
	return s.finishJob(id, a.Wait)
}

type providerArgs struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (s *Server) handleSetProvider(args json.RawMessage) (interface{}, error) {
	var a providerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	model, err := s.editor.SetProvider(a.Provider, strings.TrimSpace(a.Model))
	if err != nil {
		return nil, &paramError{err: err}
	}
	st := s.editor.State()
	return map[string]interface{}{
		"provider":   st.Provider,
		"model":      model,
		"credential": st.Credential,
	}, nil
}

func (s *Server) handleListModels(args json.RawMessage) (interface{}, error) {
	var a providerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.waitTimeout)
	defer cancel()

	models, err := s.editor.ListModels(ctx, a.Provider)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return map[string]interface{}{"models": models}, nil
}

type credentialArgs struct {
	APIKey  string `json:"api_key"`
	Persist *bool  `json:"persist"`
}

func (s *Server) handleSaveCredential(args json.RawMessage) (interface{}, error) {
	var a credentialArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	persist := a.Persist == nil || *a.Persist
	if err := s.editor.SetCredential(a.APIKey, persist); err != nil {
		return nil, err
	}
	st := s.editor.State()
	return map[string]interface{}{
		"provider":   st.Provider,
		"credential": st.Credential,
	}, nil
}

type autoTranslateArgs struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleSetAutoTranslate(args json.RawMessage) (interface{}, error) {
	var a autoTranslateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Enabled == nil {
		return nil, invalidf("enabled is required")
	}
	if err := s.editor.SetAutoTranslate(*a.Enabled); err != nil {
		return nil, err
	}
	return map[string]bool{"auto_translate": *a.Enabled}, nil
}

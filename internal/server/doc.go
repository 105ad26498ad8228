// Package server implements the MCP (Model Context Protocol) server that
// exposes a manga overlay editing session as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Page: overlay_load_image, overlay_state, overlay_render, overlay_export,
// overlay_sample_color, overlay_crop_box, overlay_detect_text_regions.
//
// Pointer: overlay_pointer_down, overlay_pointer_move, overlay_pointer_up,
// overlay_draw_box, overlay_hover. Coordinates are image pixels.
//
// Boxes and style: overlay_select_box, overlay_set_style,
// overlay_toggle_bold, overlay_toggle_italic, overlay_set_align,
// overlay_set_text, overlay_set_patch, overlay_delete_box, overlay_clear.
//
// Recognition and translation: overlay_ocr, overlay_set_ocr_language,
// overlay_translate, overlay_translate_free, overlay_set_provider,
// overlay_list_models, overlay_save_credential, overlay_set_auto_translate,
// overlay_status, overlay_wait.
//
// Recognition and translation run in the background. Tools that start them
// return at once unless called with wait=true; overlay_status and
// overlay_wait report the outcome.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for unusable arguments or unknown tools, -32000 for tool
//     failures, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: the Go error string
//
// Failures of background jobs are not errors of the tool call; they land in
// the session status with a remediation hint.
package server

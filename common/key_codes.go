package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyB   = 66  // B key (ASCII): toggle bird's-eye lock
	KeyF   = 70  // F key (ASCII): toggle follow mode
	KeyJ   = 74  // J key (ASCII): jump to the tracked pose
	KeyM   = 77  // M key (ASCII): start a measurement
	KeyR   = 82  // R key (ASCII): reset the view
	KeyEsc = 256 // Escape key (GLFW)

	KeyRight = 262 // Right arrow (GLFW): orbit right
	KeyLeft  = 263 // Left arrow (GLFW): orbit left
	KeyDown  = 264 // Down arrow (GLFW): tilt down
	KeyUp    = 265 // Up arrow (GLFW): tilt up
)

// Mouse button codes, matching glfw.MouseButton values.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#MouseButton
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)

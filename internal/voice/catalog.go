package voice

// Modes lists the assistant personas the backend accepts as the "mode"
// preference, in picker order.
var Modes = []string{"blunt", "critical", "balanced", "extreme"}

// Voices lists the selectable voice names, in picker order.
var Voices = []string{"amy", "sam", "maya", "venkatesh", "padmavathi"}

// DefaultMode and DefaultVoice are used until preferences load.
const (
	DefaultMode  = "blunt"
	DefaultVoice = "amy"
)

// FallbackVoiceModel is sent when the selected voice has no model file.
const FallbackVoiceModel = "en_US-lessac"

var voiceModels = map[string]string{
	"amy":        "en_US-amy-medium.onnx",
	"sam":        "en_US-sam-medium.onnx",
	"maya":       "te_IN-maya-medium.onnx",
	"venkatesh":  "te_IN-venkatesh-medium.onnx",
	"padmavathi": "te_IN-padmavathi-medium.onnx",
}

// VoiceModel maps a voice name to the TTS model file the backend loads.
func VoiceModel(name string) string {
	if m, ok := voiceModels[name]; ok {
		return m
	}
	return FallbackVoiceModel
}

// VoiceLabel returns the picker label for a voice name.
func VoiceLabel(name string) string {
	switch name {
	case "amy":
		return "Amy (US)"
	case "sam":
		return "Sam (US)"
	case "maya":
		return "Maya (IN)"
	case "venkatesh":
		return "Venkatesh (IN)"
	case "padmavathi":
		return "Padmavathi (IN)"
	}
	return name
}

// Next returns the entry after cur in list, wrapping around. Unknown values
// restart at the first entry.
func Next(list []string, cur string) string {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

package generate

import "math/rand/v2"

// Voices available for narration, matching the OpenAI TTS voice set.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// PickVoice selects a random narration voice.
func PickVoice() string {
	return Voices[rand.IntN(len(Voices))]
}

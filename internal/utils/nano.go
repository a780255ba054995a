package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	meetingCodeAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// MeetingCode returns a lowercase code shaped like abc-defg-hij.
func MeetingCode() string {
	raw := gonanoid.MustGenerate(meetingCodeAlphabet, 10)
	return raw[:3] + "-" + raw[3:7] + "-" + raw[7:]
}

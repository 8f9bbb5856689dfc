package domain

import "regexp"

// Image content is recognized by its literal string: an HTTP(S) URL ending in
// .jpg, .jpeg or .png, optionally followed by a query string.
var imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(jpe?g|png)(\?\S*)?$`)

// ClassifyContent derives a message type from its content. It is a pure
// function: re-running it on stored content always reproduces the stored type.
// System is never returned; callers set it explicitly.
func ClassifyContent(content string) MessageType {
	if imageURLPattern.MatchString(content) {
		return MessageTypeImage
	}
	return MessageTypeText
}

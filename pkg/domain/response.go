package domain

// Response is the single outbound reply type. Exactly one of Text, Image,
// File or Keyboard is set on success; Err carries a handler failure that the
// telegram client translates into a user-visible text.
type Response struct {
	ChatID   int64
	Text     string
	Image    *Image
	File     *File
	Keyboard *Keyboard
	Err      error
}

type Image struct {
	Data    []byte
	Caption string
}

type File struct {
	Name string
	Data []byte
}

// Keyboard is a reply keyboard of command shortcuts shown under the input
// field.
type Keyboard struct {
	Buttons [][]string
}

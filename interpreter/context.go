package interpreter

// Chunk is one piece of evaluated program text: the name it was loaded under,
// the text itself and its newline table.
type Chunk struct {
	File  string
	Text  string
	Lines []int
}

// SetSource updates the interpreter's active source context. The REPL calls
// it per chunk so runtime errors are positioned against the text that
// produced them.
func (i *Interpreter) SetSource(filename, source string, lines []int) {
	i.src = Chunk{File: filename, Text: source, Lines: lines}
}

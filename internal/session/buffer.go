package session

// replayBuffer is a bounded FIFO of undelivered output. When full, the
// oldest message makes room for the newest.
type replayBuffer struct {
	msgs []string
	head int
	size int
}

func newReplayBuffer(capacity int) *replayBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &replayBuffer{msgs: make([]string, capacity)}
}

// push appends msg and reports whether an older message was evicted.
func (b *replayBuffer) push(msg string) bool {
	if b.size < len(b.msgs) {
		b.msgs[(b.head+b.size)%len(b.msgs)] = msg
		b.size++
		return false
	}
	b.msgs[b.head] = msg
	b.head = (b.head + 1) % len(b.msgs)
	return true
}

// drain empties the buffer, returning its messages oldest first.
func (b *replayBuffer) drain() []string {
	out := make([]string, 0, b.size)
	for i := 0; i < b.size; i++ {
		out = append(out, b.msgs[(b.head+i)%len(b.msgs)])
		b.msgs[(b.head+i)%len(b.msgs)] = ""
	}
	b.head, b.size = 0, 0
	return out
}

func (b *replayBuffer) len() int {
	return b.size
}

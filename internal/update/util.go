package update

func clamp(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
	m.statusSeq++
	if isErr {
		m.logger.Error("ui", "status", text)
		return
	}
	m.logger.Debug("ui", "status", text)
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.setStatus(err.Error(), true)
}

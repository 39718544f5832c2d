package stream

// CopyAll copies the whole remaining contents of src to dest, up to
// maxLength bytes. When the source holds more than maxLength bytes, exactly
// maxLength bytes are copied and a resource-exhausted error is returned.
// On failure the destination's status takes precedence over the source's.
func CopyAll(src Reader, dest Writer, maxLength int64) error {
	if sz, known := size(src); known {
		remaining := sz - src.Pos()
		if remaining > maxLength {
			if !Copy(src, maxLength, dest) {
				return copyStatus(src, dest)
			}
			return resourceExhausted("maximum length exceeded")
		}
		if h, ok := dest.(WriteSizeHinter); ok {
			h.SetWriteSizeHint(dest.Pos() + remaining)
		}
		if !Copy(src, remaining, dest) {
			return copyStatus(src, dest)
		}
		return nil
	}
	budget := maxLength
	for src.Pull(1) {
		win := src.Data()
		if int64(len(win)) > budget {
			if !WriteBytes(dest, win[:budget]) {
				return copyStatus(src, dest)
			}
			src.Advance(int(budget))
			return resourceExhausted("maximum length exceeded")
		}
		if !WriteBytes(dest, win) {
			return copyStatus(src, dest)
		}
		budget -= int64(len(win))
		src.Advance(len(win))
	}
	if !src.OK() {
		return src.Err()
	}
	return nil
}

// copyStatus resolves the failure status of a copy: destination failures
// supersede source failures.
func copyStatus(src Reader, dest Writer) error {
	if !dest.OK() {
		return dest.Err()
	}
	if !src.OK() {
		return src.Err()
	}
	return resourceExhausted("source ended early")
}

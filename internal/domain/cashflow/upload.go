package cashflow

import "io"

// ReceiptUpload carries one receipt file into blob storage. Key is the
// generated object name; FileName is what the employee uploaded it as.
type ReceiptUpload struct {
	Key         string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

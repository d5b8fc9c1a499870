// Package mail reads rail operator messages from a directory of .eml files.
package mail

import (
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/htmlindex"

	appLog "traincal/internal/log"
)

const (
	// Sender is the address tickets and cancellations come from.
	Sender = "etickets@amtrak.com"

	reservationSubject = "eticket and receipt for your"
	cancellationPhrase = "reservation canceled"
)

// Kind classifies a message.
type Kind int

const (
	KindOther Kind = iota
	KindReservation
	KindCancellation
)

func (k Kind) String() string {
	switch k {
	case KindReservation:
		return "reservation"
	case KindCancellation:
		return "cancellation"
	default:
		return "other"
	}
}

// Attachment is a decoded MIME part carrying a file.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a parsed email. HTML and Text hold the decoded bodies of the
// matching parts, either may be empty.
type Message struct {
	ID          string
	Path        string
	Date        time.Time
	From        string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// PlainBody is the text part, or the HTML part when there is no text part.
func (m Message) PlainBody() string {
	if m.Text != "" {
		return m.Text
	}
	return m.HTML
}

// Body is the HTML part, or the text part when there is no HTML part.
func (m Message) Body() string {
	if m.HTML != "" {
		return m.HTML
	}
	return m.Text
}

// Classify tells reservation tickets and cancellations from the operator
// apart from everything else.
func Classify(m Message) Kind {
	if !strings.Contains(strings.ToLower(m.From), Sender) {
		return KindOther
	}
	if strings.Contains(strings.ToLower(m.Subject), reservationSubject) {
		return KindReservation
	}
	if strings.Contains(strings.ToLower(m.PlainBody()), cancellationPhrase) {
		return KindCancellation
	}
	return KindOther
}

// Inbox is a directory of .eml files.
type Inbox struct {
	dir          string
	searchMonths int
	now          func() time.Time
}

// NewInbox returns an inbox over dir that ignores messages older than
// searchMonths.
func NewInbox(dir string, searchMonths int) *Inbox {
	return &Inbox{dir: dir, searchMonths: searchMonths, now: time.Now}
}

// Messages returns every readable message in the search range, oldest
// first. Unreadable files are logged and skipped.
func (b *Inbox) Messages(ctx context.Context) ([]Message, error) {
	paths, err := filepath.Glob(filepath.Join(b.dir, "*.eml"))
	if err != nil {
		return nil, errors.Wrap(err, "list inbox")
	}
	sort.Strings(paths)

	cutoff := b.now().AddDate(0, -b.searchMonths, 0)
	out := make([]Message, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := readFile(p)
		if err != nil {
			appLog.Warn("mail skipped", "path", p, "reason", err.Error())
			continue
		}
		if msg.Date.Before(cutoff) {
			appLog.Debug("mail older than search range", "path", p, "date", msg.Date.Format(time.RFC3339))
			continue
		}
		out = append(out, msg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	appLog.Debug("inbox scanned", "dir", b.dir, "files", len(paths), "messages", len(out))
	return out, nil
}

// Search returns the messages of the given kind.
func (b *Inbox) Search(ctx context.Context, kind Kind) ([]Message, error) {
	all, err := b.Messages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0)
	for _, m := range all {
		if Classify(m) == kind {
			out = append(out, m)
		}
	}
	return out, nil
}

func readFile(path string) (Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return Message{}, err
	}
	defer f.Close()

	msg, err := Parse(f)
	if err != nil {
		return Message{}, err
	}
	msg.Path = path
	if msg.ID == "" {
		msg.ID = filepath.Base(path)
	}
	return msg, nil
}

// Parse reads one RFC 5322 message.
func Parse(r io.Reader) (Message, error) {
	raw, err := netmail.ReadMessage(r)
	if err != nil {
		return Message{}, errors.Wrap(err, "read message")
	}

	var dec mime.WordDecoder
	subject, err := dec.DecodeHeader(raw.Header.Get("Subject"))
	if err != nil {
		subject = raw.Header.Get("Subject")
	}
	from := raw.Header.Get("From")
	if addr, err := netmail.ParseAddress(from); err == nil {
		from = addr.Address
	}
	date, err := raw.Header.Date()
	if err != nil {
		return Message{}, errors.Wrap(err, "message date")
	}

	m := Message{
		ID:      strings.Trim(raw.Header.Get("Message-Id"), "<> "),
		Date:    date,
		From:    from,
		Subject: subject,
	}
	part := mimePart{
		contentType: raw.Header.Get("Content-Type"),
		encoding:    raw.Header.Get("Content-Transfer-Encoding"),
		disposition: raw.Header.Get("Content-Disposition"),
		body:        raw.Body,
	}
	if err := m.walk(part, 0); err != nil {
		return Message{}, err
	}
	return m, nil
}

type mimePart struct {
	contentType string
	encoding    string
	disposition string
	body        io.Reader
}

const maxDepth = 8

func (m *Message) walk(p mimePart, depth int) error {
	if depth > maxDepth {
		return errors.New("mime structure too deep")
	}
	mediaType, params, err := mime.ParseMediaType(p.contentType)
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(p.body, params["boundary"])
		for {
			child, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "read mime part")
			}
			err = m.walk(mimePart{
				contentType: child.Header.Get("Content-Type"),
				encoding:    child.Header.Get("Content-Transfer-Encoding"),
				disposition: child.Header.Get("Content-Disposition"),
				body:        child,
			}, depth+1)
			if err != nil {
				return err
			}
		}
	}

	data, err := io.ReadAll(decodeTransfer(p.body, p.encoding))
	if err != nil {
		return errors.Wrap(err, "decode mime part")
	}

	if filename := attachmentName(p.disposition, params); filename != "" || mediaType == "application/pdf" {
		m.Attachments = append(m.Attachments, Attachment{Filename: filename, ContentType: mediaType, Data: data})
		return nil
	}

	switch mediaType {
	case "text/html":
		if m.HTML == "" {
			m.HTML = decodeCharset(data, params["charset"])
		}
	case "text/plain":
		if m.Text == "" {
			m.Text = decodeCharset(data, params["charset"])
		}
	}
	return nil
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func attachmentName(disposition string, typeParams map[string]string) string {
	if disposition != "" {
		d, params, err := mime.ParseMediaType(disposition)
		if err == nil && (d == "attachment" || params["filename"] != "") {
			if params["filename"] != "" {
				return params["filename"]
			}
			return "attachment"
		}
	}
	return typeParams["name"]
}

// decodeCharset converts data to UTF-8. Unknown charsets are passed through.
func decodeCharset(data []byte, charset string) string {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return string(data)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

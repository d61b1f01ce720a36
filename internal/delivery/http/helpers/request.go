package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"eventsapi/internal/domain"
)

// ImageField is the multipart field carrying the optional event image.
const ImageField = "image"

// multipartMemory is how much of a multipart body is kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// ErrBodyTooLarge is returned when the request body exceeds the upload limit.
var ErrBodyTooLarge = errors.New("request body too large")

// Upload is the optional file sent with an event form.
type Upload struct {
	File     multipart.File
	Filename string
}

// eventJSON is the JSON form of an event request. Attendees may be a string
// or an array.
type eventJSON struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Tagline     string          `json:"tagline"`
	Schedule    string          `json:"schedule"`
	Description string          `json:"description"`
	Moderator   string          `json:"moderator"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	RigorRank   string          `json:"rigor_rank"`
	Attendees   json.RawMessage `json:"attendees"`
}

// ParseEventRequest reads event fields from a multipart, urlencoded or JSON
// body. The returned Upload is nil unless a multipart image was sent; the
// caller must close its File.
func ParseEventRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (domain.EventInput, *Upload, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		in, err := parseEventJSON(r)
		return in, nil, err
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return domain.EventInput{}, nil, bodyError(err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return domain.EventInput{}, nil, bodyError(err)
		}
	}

	form := r.PostForm
	in := domain.EventInput{
		Type:        form.Get("type"),
		Name:        form.Get("name"),
		Tagline:     form.Get("tagline"),
		Schedule:    form.Get("schedule"),
		Description: form.Get("description"),
		Moderator:   form.Get("moderator"),
		Category:    form.Get("category"),
		SubCategory: form.Get("sub_category"),
		RigorRank:   form.Get("rigor_rank"),
	}
	switch vals := form["attendees"]; len(vals) {
	case 0:
	case 1:
		in.Attendees = domain.AttendeesFromText(vals[0])
	default:
		in.Attendees = domain.AttendeesFromList(vals)
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}
	file, header, err := r.FormFile(ImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return domain.EventInput{}, nil, bodyError(err)
	}
	return in, &Upload{File: file, Filename: header.Filename}, nil
}

func parseEventJSON(r *http.Request) (domain.EventInput, error) {
	var body eventJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.EventInput{}, bodyError(err)
	}
	attendees, err := attendeesFromJSON(body.Attendees)
	if err != nil {
		return domain.EventInput{}, err
	}
	return domain.EventInput{
		Type:        body.Type,
		Name:        body.Name,
		Tagline:     body.Tagline,
		Schedule:    body.Schedule,
		Description: body.Description,
		Moderator:   body.Moderator,
		Category:    body.Category,
		SubCategory: body.SubCategory,
		RigorRank:   body.RigorRank,
		Attendees:   attendees,
	}, nil
}

func attendeesFromJSON(raw json.RawMessage) (domain.AttendeesInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.AttendeesInput{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.AttendeesInput{}, domain.NewValidationError("invalid attendees")
		}
		return domain.AttendeesFromText(s), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return domain.AttendeesInput{}, domain.NewValidationError("invalid attendees")
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprint(it))
	}
	return domain.AttendeesFromList(out), nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return domain.NewValidationError("invalid request body")
}

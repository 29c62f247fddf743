package remote

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"offline-payment-sync/internal/models"
)

// errNotApplicable means a resolver found nothing it can work with in a
// submission and the next resolver should be asked.
var errNotApplicable = errors.New("resolver not applicable")

// PhotoResolver finds the download URL of a beneficiary photo inside a form
// submission. Resolvers are tried in order until one produces a URL that
// downloads.
type PhotoResolver interface {
	Name() string
	Locate(sub *models.FormSubmission) (string, error)
}

// DirectURLResolver reads the "<photo>_URL" field newer form versions fill in
// and switches it to the medium rendition.
type DirectURLResolver struct {
	PhotoField string
}

func (r DirectURLResolver) Name() string { return "direct" }

func (r DirectURLResolver) Locate(sub *models.FormSubmission) (string, error) {
	raw := strings.TrimSpace(sub.StringField(r.PhotoField + "_URL"))
	if raw == "" {
		return "", errNotApplicable
	}
	return strings.Replace(raw, "/original/", "/medium/", 1), nil
}

// AttachmentResolver matches the photo filename stem against the
// submission's attachment list and builds the attachment endpoint URL.
type AttachmentResolver struct {
	BaseURL    string
	AssetID    string
	PhotoField string
}

func (r AttachmentResolver) Name() string { return "attachment" }

func (r AttachmentResolver) Locate(sub *models.FormSubmission) (string, error) {
	filename := strings.TrimSpace(sub.StringField(r.PhotoField))
	if filename == "" {
		return "", fmt.Errorf("%w: no %q value", errNotApplicable, r.PhotoField)
	}
	if len(sub.Attachments) == 0 {
		return "", fmt.Errorf("%w: no attachments", errNotApplicable)
	}

	stem := filename
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no name before its extension", errNotApplicable, filename)
	}

	for _, att := range sub.Attachments {
		if !strings.Contains(att.Filename, stem) {
			continue
		}
		if att.UID == "" {
			return "", fmt.Errorf("attachment %q has no uid", att.Filename)
		}
		if sub.ID == "" {
			return "", fmt.Errorf("submission has no _id")
		}
		return fmt.Sprintf("%s/api/v2/assets/%s/data/%s/attachments/%s/?view=medium",
			strings.TrimRight(r.BaseURL, "/"),
			url.PathEscape(r.AssetID),
			url.PathEscape(sub.ID.String()),
			url.PathEscape(att.UID),
		), nil
	}
	return "", fmt.Errorf("%w: no attachment matches %q", errNotApplicable, filename)
}

// DefaultResolvers returns the resolver chain in priority order.
func DefaultResolvers(baseURL, assetID, photoField string) []PhotoResolver {
	return []PhotoResolver{
		DirectURLResolver{PhotoField: photoField},
		AttachmentResolver{BaseURL: baseURL, AssetID: assetID, PhotoField: photoField},
	}
}

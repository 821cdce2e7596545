package handler

import (
	"time"

	"talentflow/internal/assignment/models"
	"talentflow/internal/directory"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

type checkPermissionRequest struct {
	Classification string   `json:"classification"`
	Audience       []string `json:"audience"`
}

func (r checkPermissionRequest) parse() (id.Classification, []id.UserID, error) {
	classification, err := id.ParseClassification(r.Classification)
	if err != nil {
		return "", nil, err
	}
	audience, err := parseAudience(r.Audience)
	if err != nil {
		return "", nil, err
	}
	return classification, audience, nil
}

type createAssignmentRequest struct {
	FormID         string   `json:"form_id"`
	Audience       []string `json:"audience"`
	Mode           string   `json:"mode"`
	Classification string   `json:"classification"`
	DueDate        *string  `json:"due_date,omitempty"`
}

type parsedCreateRequest struct {
	formID         id.FormID
	audience       []id.UserID
	mode           models.AudienceMode
	classification id.Classification
	dueDate        *time.Time
}

func (r createAssignmentRequest) parse() (parsedCreateRequest, error) {
	var out parsedCreateRequest

	formID, err := id.ParseFormID(r.FormID)
	if err != nil {
		return out, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid form id")
	}
	audience, err := parseAudience(r.Audience)
	if err != nil {
		return out, err
	}
	mode, err := models.ParseAudienceMode(r.Mode)
	if err != nil {
		return out, err
	}
	classification, err := id.ParseClassification(r.Classification)
	if err != nil {
		return out, err
	}
	var dueDate *time.Time
	if r.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *r.DueDate)
		if err != nil {
			return out, dErrors.New(dErrors.CodeInvalidInput, "due_date must be RFC 3339")
		}
		dueDate = &parsed
	}

	out = parsedCreateRequest{
		formID:         formID,
		audience:       audience,
		mode:           mode,
		classification: classification,
		dueDate:        dueDate,
	}
	return out, nil
}

func parseAudience(raw []string) ([]id.UserID, error) {
	audience := make([]id.UserID, 0, len(raw))
	for _, entry := range raw {
		userID, err := id.ParseUserID(entry)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid audience member id")
		}
		audience = append(audience, userID)
	}
	return audience, nil
}

type assignableUsersResponse struct {
	Users []*directory.User `json:"users"`
}

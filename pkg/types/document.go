package types

type DocumentType string

const (
	DocumentTypeIdentity   DocumentType = "identity"
	DocumentTypeExperience DocumentType = "experience"
)

func (d DocumentType) String() string {
	return string(d)
}

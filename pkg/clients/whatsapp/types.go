package whatsapp

// TextOptions tweaks outbound text messages.
type TextOptions struct {
	PreviewURL bool
}

// MediaOptions carries the optional caption/filename attributes accepted by
// media sends. Empty values are omitted from the payload.
type MediaOptions struct {
	Caption  string
	Filename string
}

// LocationOptions names the shared location.
type LocationOptions struct {
	Name    string
	Address string
}

// InteractiveOptions decorates reply-button and list messages.
type InteractiveOptions struct {
	FooterText string
	// Header follows the Cloud API interactive-header shape, e.g.
	// {"type": "text", "text": "..."} or {"type": "image", "image": {...}}.
	Header map[string]any
}

// ReplyButton is one button of an interactive reply-button message. Order is
// preserved in the outbound payload.
type ReplyButton struct {
	ID    string
	Title string
}

// ListRow is one selectable row of an interactive list message.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListSection groups list rows under a section title.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// TemplateComponent is one component of a template send, in the Cloud API's
// own shape (type, parameters, ...).
type TemplateComponent map[string]any

// ContactName holds the name block of an outbound contact card. FormattedName
// is mandatory; the API additionally requires at least one of the other parts.
type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

// ContactAddress is a postal address attached to a contact card.
type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ContactEmail is an email entry of a contact card.
type ContactEmail struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ContactPhone is a phone entry of a contact card.
type ContactPhone struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
}

// ContactOrg describes the organization block of a contact card.
type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

// ContactURL is a website entry of a contact card.
type ContactURL struct {
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

// Contact is one outbound contact card.
type Contact struct {
	Name      ContactName      `json:"name"`
	Addresses []ContactAddress `json:"addresses,omitempty"`
	Birthday  string           `json:"birthday,omitempty"`
	Emails    []ContactEmail   `json:"emails,omitempty"`
	Org       *ContactOrg      `json:"org,omitempty"`
	Phones    []ContactPhone   `json:"phones,omitempty"`
	URLs      []ContactURL     `json:"urls,omitempty"`
}

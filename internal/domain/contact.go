package domain

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit control labels for the contact form.
const (
	ContactLabelIdle = "Send Message"
	ContactLabelBusy = "Verzenden..."
)

// ContactStatus describes the contact form submit control.
type ContactStatus struct {
	Busy  bool   `json:"busy"`
	Label string `json:"label"`
}

package common

type ViewKind string

const (
	ViewForm               ViewKind = "form"
	ViewNotFound           ViewKind = "not_found"
	ViewPreconditionFailed ViewKind = "precondition_failed"
	ViewBadRequest         ViewKind = "bad_request"
)

// View is what a form page resolves to. Only ViewForm carries a Form.
type View struct {
	Kind    ViewKind `json:"kind"`
	Title   string   `json:"title"`
	Message string   `json:"message,omitempty"`
	Form    any      `json:"form,omitempty"`
}

// FormView wraps an editable form
func FormView(title string, form any) View {
	return View{Kind: ViewForm, Title: title, Form: form}
}

// NotFoundView reports a missing record
func NotFoundView(message string) View {
	return View{Kind: ViewNotFound, Title: "Not Found", Message: message}
}

// PreconditionFailedView reports a record that cannot be worked on
func PreconditionFailedView(message string) View {
	return View{Kind: ViewPreconditionFailed, Title: "Unavailable", Message: message}
}

// BadRequestView reports a request missing its identifiers
func BadRequestView(message string) View {
	return View{Kind: ViewBadRequest, Title: "Bad Request", Message: message}
}

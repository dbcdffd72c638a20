package common

// Placeholder values bound into new records.
const (
	NewCustomerID     uint = 0
	NewTicketID       uint = 0
	NewTicketLabel         = "(New)"
	NewTicketTech          = "new-ticket@example.com"
	NewCustomerActive      = true
)

// Role names carried in viewer permission claims.
const (
	RoleManager = "manager"
)

type State struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// StatesArray is the closed set of region codes a customer address may use.
var StatesArray = []State{
	{ID: "AL", Description: "Alabama"},
	{ID: "AK", Description: "Alaska"},
	{ID: "AZ", Description: "Arizona"},
	{ID: "AR", Description: "Arkansas"},
	{ID: "CA", Description: "California"},
	{ID: "CO", Description: "Colorado"},
	{ID: "CT", Description: "Connecticut"},
	{ID: "DE", Description: "Delaware"},
	{ID: "DC", Description: "District of Columbia"},
	{ID: "FL", Description: "Florida"},
	{ID: "GA", Description: "Georgia"},
	{ID: "HI", Description: "Hawaii"},
	{ID: "ID", Description: "Idaho"},
	{ID: "IL", Description: "Illinois"},
	{ID: "IN", Description: "Indiana"},
	{ID: "IA", Description: "Iowa"},
	{ID: "KS", Description: "Kansas"},
	{ID: "KY", Description: "Kentucky"},
	{ID: "LA", Description: "Louisiana"},
	{ID: "ME", Description: "Maine"},
	{ID: "MD", Description: "Maryland"},
	{ID: "MA", Description: "Massachusetts"},
	{ID: "MI", Description: "Michigan"},
	{ID: "MN", Description: "Minnesota"},
	{ID: "MS", Description: "Mississippi"},
	{ID: "MO", Description: "Missouri"},
	{ID: "MT", Description: "Montana"},
	{ID: "NE", Description: "Nebraska"},
	{ID: "NV", Description: "Nevada"},
	{ID: "NH", Description: "New Hampshire"},
	{ID: "NJ", Description: "New Jersey"},
	{ID: "NM", Description: "New Mexico"},
	{ID: "NY", Description: "New York"},
	{ID: "NC", Description: "North Carolina"},
	{ID: "ND", Description: "North Dakota"},
	{ID: "OH", Description: "Ohio"},
	{ID: "OK", Description: "Oklahoma"},
	{ID: "OR", Description: "Oregon"},
	{ID: "PA", Description: "Pennsylvania"},
	{ID: "RI", Description: "Rhode Island"},
	{ID: "SC", Description: "South Carolina"},
	{ID: "SD", Description: "South Dakota"},
	{ID: "TN", Description: "Tennessee"},
	{ID: "TX", Description: "Texas"},
	{ID: "UT", Description: "Utah"},
	{ID: "VT", Description: "Vermont"},
	{ID: "VA", Description: "Virginia"},
	{ID: "WA", Description: "Washington"},
	{ID: "WV", Description: "West Virginia"},
	{ID: "WI", Description: "Wisconsin"},
	{ID: "WY", Description: "Wyoming"},
}

var stateIndex = func() map[string]bool {
	m := make(map[string]bool, len(StatesArray))
	for _, s := range StatesArray {
		m[s.ID] = true
	}
	return m
}()

// IsState reports whether code is one of StatesArray.
func IsState(code string) bool {
	return stateIndex[code]
}

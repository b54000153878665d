package embedded

// User is the account payload exchanged with the embedded-analytics
// user-management API. The permission flags mirror the defaults the back
// office provisions for partner accounts: view-only access, visual headers
// on, no export or authoring rights.
type User struct {
	ID                              string  `json:"id,omitempty"`
	Name                            string  `json:"name"`
	Email                           string  `json:"email"`
	Role                            int     `json:"role"`
	Department                      string  `json:"department,omitempty"`
	ExpirationDate                  *string `json:"expirationDate"`
	ReportLandingPage               *string `json:"reportLandingPage"`
	WindowsAdUser                   *string `json:"windowsAdUser"`
	BypassFirewall                  bool    `json:"bypassFirewall"`
	CanEditReport                   bool    `json:"canEditReport"`
	CanCreateReport                 bool    `json:"canCreateReport"`
	CanOverwriteReport              bool    `json:"canOverwriteReport"`
	CanRefreshDataset               bool    `json:"canRefreshDataset"`
	CanCreateSubscription           bool    `json:"canCreateSubscription"`
	CanDownloadPbix                 bool    `json:"canDownloadPbix"`
	CanExportReportWithHiddenPages  bool    `json:"canExportReportWithHiddenPages"`
	CanCreateNewUsers               bool    `json:"canCreateNewUsers"`
	CanStartCapacityByDemand        bool    `json:"canStartCapacityByDemand"`
	CanDisplayVisualHeaders         bool    `json:"canDisplayVisualHeaders"`
	CanExportReportOtherPages       bool    `json:"canExportReportOtherPages"`
	AccessReportAnyTime             bool    `json:"accessReportAnyTime"`
	SendWelcomeEmail                bool    `json:"sendWelcomeEmail"`
}

// userListResponse is the envelope returned by the user list endpoint.
type userListResponse struct {
	Data []User `json:"data"`
}

// errorResponse covers both error body shapes the API has been seen to return.
type errorResponse struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

// setPasswordRequest is the body for the dedicated password endpoint.
type setPasswordRequest struct {
	Password string `json:"password"`
}

package catalog

// Endpoint ids of the builtin BaNCS catalog.
const (
	CreateAccountID  = "create_acnt_actv_using_post"
	AccountBalanceID = "cbpetget_account_balance_using_get"
)

// Header names the BaNCS API reads on every call.
const (
	HeaderAccessToken      = "Accesstoken"
	HeaderChannelType      = "ChannelType"
	HeaderCoRelationID     = "Co-Relationid"
	HeaderInitiatingSystem = "InitiatingSystem"
	HeaderServiceMode      = "ServiceMode"
	HeaderUUIDSeqNo        = "UUIDSeqNo"
	HeaderEntity           = "entity"
	HeaderLanguageCode     = "languageCode"
	HeaderReferenceID      = "referenceId"
	HeaderUserID           = "userId"
)

func header(name, typ, description string) ParameterSpec {
	return ParameterSpec{Name: name, Type: typ, Location: InHeader, Description: description}
}

// Builtin returns the BaNCS core endpoints shipped with the binary.
// A fresh slice is returned on every call.
func Builtin() []EndpointSpec {
	return []EndpointSpec{
		{
			ID:           CreateAccountID,
			Method:       MethodPost,
			Path:         "/accountManagement/account",
			Description:  "Create Account for a given customer",
			Tags:         []string{"AccountManagement"},
			AuthRequired: false,
			OperationID:  "Create Savings Accpunt ",
			Parameters: []ParameterSpec{
				{Name: "request_body", Type: "any", Location: InBody, Required: true, Description: "input"},
				header(HeaderEntity, "string", "entity"),
				header(HeaderLanguageCode, "integer", "languageCode"),
				header(HeaderUserID, "integer", "userId"),
			},
		},
		{
			ID:           AccountBalanceID,
			Method:       MethodGet,
			Path:         "/accountManagement/account/balanceDetails/{accountReference}",
			Description:  "Fetch Account Balance Details",
			Tags:         []string{"AccountManagement"},
			AuthRequired: false,
			OperationID:  "CBPETGetAccountBalanceUsingGET",
			Parameters: []ParameterSpec{
				{Name: "accountReference", Type: "string", Location: InPath, Required: true, Description: "Enter the Account Reference"},
				header(HeaderAccessToken, "string", "Authorization token for identification of the caller"),
				header(HeaderChannelType, "integer", "Channel identifier from where the TXN has originated (Internet, Mobile, ATM, Branch Channel)"),
				header(HeaderCoRelationID, "integer", "Unique ID for the service invoked, will be set by the TXN system"),
				header(HeaderInitiatingSystem, "string", "Indicating the initiated system"),
				header(HeaderServiceMode, "integer", "Used for branch channel to indicate the type of customer"),
				header(HeaderUUIDSeqNo, "integer", "UUID Sequence Number"),
				header(HeaderEntity, "string", "entity"),
				header(HeaderLanguageCode, "integer", "languageCode"),
				header(HeaderReferenceID, "string", "Place holder for Token based authentication"),
				header(HeaderUserID, "integer", "userId"),
			},
		},
	}
}

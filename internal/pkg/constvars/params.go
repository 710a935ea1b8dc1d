package constvars

const (
	QueryParamLimit = "limit"
)

const (
	URLParamUserID = "user_id"
)

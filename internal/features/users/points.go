package users

// Civic point grants per action. Applied only through atomic increments.
const (
	PointsReportIssue      = 5
	PointsComment          = 2
	PointsVerifyResolution = 10
	PointsUpvote           = 1
	PointsJoinDrive        = 15
	PointsOrganizeDrive    = 20
)

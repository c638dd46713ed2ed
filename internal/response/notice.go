package response

// Notice is a transient, user-visible notification attached to a response.
type Notice string

const (
	NoticeFetchProfilesFailed Notice = "Failed to fetch profiles"
	NoticeFetchDetailFailed   Notice = "Failed to fetch profile details"
	NoticeProfileNotFound     Notice = "Profile not found"
	NoticeCreated             Notice = "Profile created successfully"
	NoticeUpdated             Notice = "Profile updated successfully"
	NoticeDeleted             Notice = "Profile deleted successfully"
	NoticeCreateFailed        Notice = "Failed to create profile"
	NoticeUpdateFailed        Notice = "Failed to update profile"
	NoticeDeleteFailed        Notice = "Failed to delete profile"
	NoticeSignedOut           Notice = "Signed out"
)

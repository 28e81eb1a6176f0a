package domain

// FolderProfilePhotos is the logical remote folder for profile photos.
const FolderProfilePhotos = "profile-photos"

// UploadedAsset is a validated, fully buffered upload. It lives for one request.
type UploadedAsset struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// StoredObject locates a binary held by the remote object store.
type StoredObject struct {
	ObjectID  string
	SecureURL string
}

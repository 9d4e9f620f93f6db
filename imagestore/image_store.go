package imagestore

// ImageStore is the image hosting collaborator: it accepts an uploaded
// image and returns a publicly reachable url for it.
type ImageStore interface {
	Store(data []byte, fileName string) (url string, err error)
}

package imagestore

// FakeImageStore is a test double that never touches the network.
type FakeImageStore struct{}

func (*FakeImageStore) Store(data []byte, fileName string) (url string, err error) {
	return "https://images.test/" + fileName, nil
}

// FailingImageStore is a test double that always fails its upload.
type FailingImageStore struct {
	Err error
}

func (f *FailingImageStore) Store(data []byte, fileName string) (url string, err error) {
	return "", f.Err
}

package port

// ImageLister enumerates image files in a directory.
type ImageLister interface {
	List(dir string) ([]string, error)
}

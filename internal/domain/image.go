package domain

// Image описывает изображение, которое хранится в S3
type Image struct {
	Bucket    string
	ObjectKey string
	Bytes     []byte
	// Передайте значение -1 в Size, если размер потока неизвестен
	// (внимание: при передаче значения -1 будет выделен большой объем памяти).
	Size     int64
	MimeType string // Example: "image/png"
}

func NewImage(bucket string, objectKey string, data []byte, size int64, mimeType string) *Image {
	return &Image{
		Bucket:    bucket,
		ObjectKey: objectKey,
		Bytes:     data,
		Size:      size,
		MimeType:  mimeType,
	}
}

// imageExtensions — принимаемые MIME-типы изображений и расширения их объектов.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageExtension возвращает расширение файла для MIME-типа изображения.
func ImageExtension(mimeType string) (string, bool) {
	ext, ok := imageExtensions[mimeType]
	return ext, ok
}

// SupportedImageType сообщает, принимается ли изображение с таким MIME-типом.
func SupportedImageType(mimeType string) bool {
	_, ok := imageExtensions[mimeType]
	return ok
}

package config

// UploadConfig - правила приёма файла для конкретного контекста загрузки.
type UploadConfig struct {
	AllowedExtensions []string
	MaxSizeMB         int64
	PathPrefix        string
}

func (u UploadConfig) MaxSizeBytes() int64 {
	return u.MaxSizeMB << 20
}

func (u UploadConfig) AllowsExtension(ext string) bool {
	for _, allowed := range u.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

const UploadContextAssetImport = "asset_import"

var UploadContexts = map[string]UploadConfig{
	UploadContextAssetImport: {
		AllowedExtensions: []string{".xlsx"},
		MaxSizeMB:         10,
		PathPrefix:        "asset-imports",
	},
}

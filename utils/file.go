package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_SHP = ".shp"
	FILE_EXT_TIF = ".tif"
)

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 目录下不重复的临时文件路径：<dir>/<prefix>_<uuid><ext>
func GetUniqFilePath(dir, prefix, ext string) string {
	return filepath.Join(dir, prefix+"_"+uuid.NewString()+ext)
}

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

// 输入文件同目录下加后缀的输出路径，如 a.tif -> a_clip.tif
func GetSiblingPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

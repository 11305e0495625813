package utils

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// FileMD5 returns the hex MD5 digest of a file's contents.
func FileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// BytesMD5 returns the hex MD5 digest of a byte slice.
func BytesMD5(data []byte) string {
	hash := md5.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}

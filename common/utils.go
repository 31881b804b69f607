package common

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
)

// MatchesPattern checks if a string matches any of the given exact names or prefixes
func MatchesPattern(target string, exactNames, prefixNames []string) bool {
	// Check exact matches
	for _, name := range exactNames {
		if name != "" && target == name {
			return true
		}
	}

	// Check prefix matches
	for _, prefix := range prefixNames {
		if prefix != "" && strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// CalculateEntropy returns the Shannon entropy of data in bits per byte
func CalculateEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}
	freq := make([]int, 256)
	for _, b := range data {
		freq[b]++
	}
	entropy := 0.0
	length := float64(len(data))
	for _, count := range freq {
		if count > 0 {
			p := float64(count) / length
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// SummarizeSection computes hashes and entropy for a section's raw data.
// perms is a combination of PERM_READ, PERM_WRITE and PERM_EXECUTE.
func SummarizeSection(data []byte, perms int) CommonSectionInfo {
	info := CommonSectionInfo{
		IsExecutable: perms&PERM_EXECUTE != 0,
		IsReadable:   perms&PERM_READ != 0,
		IsWritable:   perms&PERM_WRITE != 0,
	}
	if len(data) == 0 {
		info.MD5Hash = "N/A (no raw data)"
		info.SHA1Hash = "N/A (no raw data)"
		info.SHA256Hash = "N/A (no raw data)"
		return info
	}
	md5Hash := md5.Sum(data)
	sha1Hash := sha1.Sum(data)
	sha256Hash := sha256.Sum256(data)
	info.MD5Hash = hex.EncodeToString(md5Hash[:])
	info.SHA1Hash = hex.EncodeToString(sha1Hash[:])
	info.SHA256Hash = hex.EncodeToString(sha256Hash[:])
	info.Entropy = CalculateEntropy(data)
	return info
}

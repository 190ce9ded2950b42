// Package main provides localization for the yuvenc CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Encode raw NV21 images into H.264/HEVC elementary streams and MP4 files.": "生のNV21画像をH.264/HEVCのエレメンタリストリームとMP4ファイルにエンコードします。",

		// Errors
		"Input file is required":                  "入力ファイルが必要です",
		"Input does not match the frame size: %s": "入力がフレームサイズと一致しません: %s",

		// Probe command
		"Codec: %s (%s)":    "コーデック: %s (%s)",
		"Dimensions: %dx%d": "解像度: %dx%d",
		"Samples: %d":       "サンプル数: %d",
		"Timescale: %d":     "タイムスケール: %d",
		"Fragmented: yes":   "フラグメント化: あり",

		// Version command
		"yuvenc version %s": "yuvenc バージョン %s",

		// Summary labels
		"Encode Summary":    "エンコードサマリー",
		"Generated":         "生成日時",
		"Session":           "セッション",
		"Input":             "入力",
		"Encoding":          "エンコード",
		"Outputs":           "出力",
		"None":              "なし",
		"Item":              "項目",
		"Value":             "値",
		"Kind":              "種類",
		"Path":              "パス",
		"Size":              "サイズ",
		"File":              "ファイル",
		"Pixel Format":      "ピクセルフォーマット",
		"Dimensions":        "解像度",
		"Frame Count":       "フレーム数",
		"Input Size":        "入力サイズ",
		"Codec":             "コーデック",
		"Frame Rate":        "フレームレート",
		"Bitrate":           "ビットレート",
		"Keyframe Interval": "キーフレーム間隔",
		"Access Units":      "アクセスユニット数",
		"Keyframes":         "キーフレーム数",
		"Stream Duration":   "ストリーム長",
		"Elapsed":           "処理時間",
		"Generated by":      "生成元",
	})
}

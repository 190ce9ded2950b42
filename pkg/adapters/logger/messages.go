package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Starting encode session %s":    "エンコードセッション %s を開始します",
		"Encode session completed":      "エンコードセッションが完了しました",
		"Stage %s finished in %s":       "ステージ %s が %s で完了しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Output saved to %s":            "出力を %s に保存しました",
		"Elementary stream saved to %s": "エレメンタリストリームを %s に保存しました",
		"Replacing existing file %s":    "既存のファイル %s を置き換えます",
		"Summary saved to %s":           "サマリーを %s に保存しました",

		// Load stage
		"Loading %s (%s, %dx%d)":      "%s を読み込み中 (%s, %dx%d)",
		"Loaded %d frames (%d bytes)": "%d フレームを読み込みました (%d バイト)",
		"Limiting to %d of %d frames": "%d / %d フレームに制限します",

		// Preview stage
		"Rendering preview":   "プレビューを生成中",
		"Preview saved to %s": "プレビューを %s に保存しました",

		// Convert stage
		"Converting %d frames from %s to %s": "%d フレームを %s から %s に変換中",

		// Encode stage
		"Encoding %d frames as %s at %.2f fps, %d bps": "%d フレームを %s (%.2f fps, %d bps) でエンコード中",
		"Encoded %d access units (%d keyframes)":       "%d アクセスユニットをエンコードしました (キーフレーム %d)",
		"ffmpeg produced %d bytes for %d frames":       "ffmpeg が %d フレームに対して %d バイトを出力しました",

		// ffmpeg
		"Starting %s %v": "%s %v を起動します",

		// Mux stage
		"Muxing %d access units into MP4": "%d アクセスユニットをMP4に多重化中",
		"Container written: %d bytes":     "コンテナを書き込みました: %d バイト",

		// Warnings
		"Encoder returned %d access units for %d frames": "エンコーダは %d フレームに対して %d アクセスユニットを返しました",
		"Failed to save debug output: %s":                "デバッグ出力の保存に失敗しました: %s",

		// Errors
		"Failed to load input: %s":     "入力の読み込みに失敗しました: %s",
		"Failed to render preview: %s": "プレビューの生成に失敗しました: %s",
		"Failed to convert frames: %s": "フレームの変換に失敗しました: %s",
		"Failed to encode video: %s":   "動画のエンコードに失敗しました: %s",
		"Failed to mux container: %s":  "コンテナの多重化に失敗しました: %s",
		"Failed to write output: %s":   "出力の書き込みに失敗しました: %s",
		"Failed to write summary: %s":  "サマリーの書き込みに失敗しました: %s",
	})
}

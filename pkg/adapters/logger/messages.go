package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Transcode session messages (info)
		"Transcoding %s to %s":       "%s を %s へ変換中",
		"Transcode completed: %s":    "変換が完了しました: %s",
		"Transcode cancelled":        "変換がキャンセルされました",
		"Transcode failed: %s":       "変換に失敗しました: %s",
		"Progress: %d/%d frames":     "進捗: %d/%d フレーム",
		"Interrupted, cancelling...": "中断されました。キャンセル中...",

		// Setup messages
		"Transcode setup failed: %s":                                          "変換のセットアップに失敗しました: %s",
		"Transcode set up: %dx%d output, orientation %s, %d estimated frames": "変換準備完了: 出力 %dx%d, 向き %s, 推定 %d フレーム",

		// Container adapter messages (debug)
		"Opened source: %d video, %d audio tracks": "ソースを開きました: 映像 %d, 音声 %d トラック",
		"Finalized output: %d bytes":               "出力を確定しました: %d バイト",
	})
}

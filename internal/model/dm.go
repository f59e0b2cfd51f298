package model

import "fmt"

// DMKey 兩位使用者的私訊頻道識別碼，與參數順序無關
func DMKey(a, b string) string {
	if a > b {
		return a + "_" + b
	}
	return b + "_" + a
}

// GroupKey 群組頻道的 dm_id，讓唯一索引對群組同樣成立
func GroupKey(createdAt int64, unique string) string {
	return fmt.Sprintf("%d_%s", createdAt, unique)
}

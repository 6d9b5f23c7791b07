// internal/questions/builtin.go
package questions

import "github.com/jason-s-yu/quizparty/internal/models"

func q(lang, category, text, answer string, d models.Difficulty, distractors ...string) models.Question {
	return models.Question{
		Text:        text,
		Answer:      answer,
		Difficulty:  d,
		Category:    category,
		Language:    lang,
		Distractors: distractors,
	}
}

// Builtin is the corpus shipped with the server, used when no database is configured.
func Builtin() []models.Question {
	return []models.Question{
		// en / general
		q("en", "general", "What is the capital of France?", "Paris", models.DifficultyEasy, "London", "Berlin", "Madrid"),
		q("en", "general", "Who painted the Mona Lisa?", "Leonardo da Vinci", models.DifficultyHard, "Picasso", "Van Gogh", "Michelangelo"),
		q("en", "general", "What is 2 + 2?", "4", models.DifficultyEasy, "3", "5", "6"),
		q("en", "general", "What is the largest planet?", "Jupiter", models.DifficultyEasy, "Earth", "Saturn", "Mars"),
		q("en", "general", "In which year did WWII end?", "1945", models.DifficultyHard, "1944", "1946", "1947"),
		q("en", "general", "What is the speed of light?", "299792458", models.DifficultyImpossible, "300000000", "299000000", "301000000"),
		q("en", "general", "Who wrote Romeo and Juliet?", "Shakespeare", models.DifficultyHard, "Dickens", "Austen", "Wilde"),
		q("en", "general", "What is H2O?", "Water", models.DifficultyEasy, "Oxygen", "Hydrogen", "Carbon"),
		q("en", "general", "How many continents are there?", "7", models.DifficultyEasy, "5", "6", "8"),
		q("en", "general", "What is the smallest country?", "Vatican City", models.DifficultyHard, "Monaco", "San Marino", "Liechtenstein"),

		// en / sports
		q("en", "sports", "How many players in a football team?", "11", models.DifficultyEasy, "10", "12", "9"),
		q("en", "sports", "Where were the 2020 Olympics held?", "Tokyo", models.DifficultyEasy, "London", "Paris", "Beijing"),
		q("en", "sports", "Who won the 2018 FIFA World Cup?", "France", models.DifficultyHard, "Germany", "Brazil", "Argentina"),
		q("en", "sports", "What sport is Wimbledon associated with?", "Tennis", models.DifficultyEasy, "Golf", "Cricket", "Rugby"),
		q("en", "sports", "How many holes in a standard golf course?", "18", models.DifficultyEasy, "16", "20", "22"),

		// en / geography
		q("en", "geography", "What is the longest river?", "Nile", models.DifficultyHard, "Amazon", "Mississippi", "Yangtze"),
		q("en", "geography", "Which desert is the largest?", "Sahara", models.DifficultyEasy, "Gobi", "Kalahari", "Mojave"),
		q("en", "geography", "What is the highest mountain?", "Everest", models.DifficultyEasy, "K2", "Kilimanjaro", "Denali"),
		q("en", "geography", "Which country has the most time zones?", "Russia", models.DifficultyHard, "USA", "China", "Canada"),
		q("en", "geography", "What is the smallest ocean?", "Arctic", models.DifficultyHard, "Indian", "Atlantic", "Antarctic"),

		// en / science
		q("en", "science", "What is the chemical symbol for gold?", "Au", models.DifficultyHard, "Go", "Ag", "Al"),
		q("en", "science", "How many bones in the human body?", "206", models.DifficultyImpossible, "204", "208", "210"),
		q("en", "science", "What gas do plants absorb?", "Carbon Dioxide", models.DifficultyEasy, "Oxygen", "Nitrogen", "Hydrogen"),
		q("en", "science", "What is the hardest natural substance?", "Diamond", models.DifficultyHard, "Gold", "Iron", "Platinum"),
		q("en", "science", "How many chambers does a human heart have?", "4", models.DifficultyEasy, "2", "3", "5"),

		// en / history
		q("en", "history", "When did the Berlin Wall fall?", "1989", models.DifficultyHard, "1987", "1988", "1990"),
		q("en", "history", "Who was the first person on the moon?", "Neil Armstrong", models.DifficultyEasy, "Buzz Aldrin", "John Glenn", "Alan Shepard"),
		q("en", "history", "Which empire built Machu Picchu?", "Inca", models.DifficultyHard, "Aztec", "Maya", "Olmec"),
		q("en", "history", "When did WWI start?", "1914", models.DifficultyHard, "1912", "1913", "1915"),
		q("en", "history", "Who painted the Sistine Chapel?", "Michelangelo", models.DifficultyHard, "Leonardo", "Raphael", "Donatello"),

		// ar / general
		q("ar", "general", "ما عاصمة فرنسا؟", "باريس", models.DifficultyEasy, "لندن", "برلين", "مدريد"),
		q("ar", "general", "من رسم الموناليزا؟", "ليوناردو دا فينشي", models.DifficultyHard, "بيكاسو", "فان جوخ", "مايكل أنجلو"),
		q("ar", "general", "كم يساوي 2 + 2؟", "4", models.DifficultyEasy, "3", "5", "6"),
		q("ar", "general", "ما أكبر كوكب؟", "المشتري", models.DifficultyEasy, "الأرض", "زحل", "المريخ"),
		q("ar", "general", "في أي عام انتهت الحرب العالمية الثانية؟", "1945", models.DifficultyHard, "1944", "1946", "1947"),

		// ar / sports
		q("ar", "sports", "كم لاعب في فريق كرة القدم؟", "11", models.DifficultyEasy, "10", "12", "9"),
		q("ar", "sports", "أين أقيمت أولمبياد 2020؟", "طوكيو", models.DifficultyEasy, "لندن", "باريس", "بكين"),
		q("ar", "sports", "من فاز بكأس العالم 2018؟", "فرنسا", models.DifficultyHard, "ألمانيا", "البرازيل", "الأرجنتين"),

		// ar / geography
		q("ar", "geography", "ما أطول نهر في العالم؟", "النيل", models.DifficultyHard, "الأمازون", "المسيسيبي", "اليانغتسي"),
		q("ar", "geography", "ما أكبر صحراء؟", "الصحراء الكبرى", models.DifficultyEasy, "جوبي", "كالاهاري", "موهافي"),

		// ar / science
		q("ar", "science", "ما الرمز الكيميائي للذهب؟", "Au", models.DifficultyHard, "Go", "Ag", "Al"),
		q("ar", "science", "أي غاز تمتصه النباتات؟", "ثاني أكسيد الكربون", models.DifficultyEasy, "الأكسجين", "النيتروجين", "الهيدروجين"),

		// ar / history
		q("ar", "history", "متى سقط جدار برلين؟", "1989", models.DifficultyHard, "1987", "1988", "1990"),
		q("ar", "history", "من أول شخص على القمر؟", "نيل أرمسترونغ", models.DifficultyEasy, "باز ألدرين", "جون جلين", "آلان شيبارد"),
	}
}
